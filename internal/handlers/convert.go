// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handlers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tombee/codeconv/internal/api"
	"github.com/tombee/codeconv/internal/log"
	"github.com/tombee/codeconv/internal/ui"
	"github.com/tombee/codeconv/pkg/command"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// Convert option keys.
const (
	KeyFile   = "file"
	KeyFrom   = "from"
	KeyTo     = "to"
	KeyOutput = "output"
	KeyDir    = "dir"
	KeyForce  = "force"
)

// Convert sends a script to the service and prints or writes the result.
func (h *Handlers) Convert(ctx context.Context, args command.Args) error {
	file, okFile := args.String(KeyFile)
	from, okFrom := args.String(KeyFrom)
	to, okTo := args.String(KeyTo)
	if !okFile || !okFrom || !okTo {
		return command.NewCommandError("convert requires --file, --from and --to", nil)
	}
	output, _ := args.String(KeyOutput)
	dir, hasDir := args.String(KeyDir)

	p, err := h.requireLogin(ctx)
	if err != nil {
		return err
	}

	if hasDir {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return command.NewAppError(MsgDirNotFound)
		}
	}

	content, err := readScript(file)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(content) > h.maxLen {
		return command.NewAppError(MsgContentTooLarge)
	}

	logger := h.logger.With("from", from, "to", to, "bytes", len(content))
	logger.Debug("converting script", "file", file)

	result, err := h.service.ConvertScript(ctx, p.AccessToken, api.ConvertRequest{
		Source:  from,
		Target:  to,
		Content: content,
	})
	if err != nil {
		var authErr *codeconverrors.AuthError
		if codeconverrors.As(err, &authErr) || codeconverrors.Is(err, context.Canceled) {
			return err
		}
		attrs := []any{log.Error(err), "retryable", codeconverrors.IsRetryable(err)}
		var classified codeconverrors.ErrorClassifier
		if codeconverrors.As(err, &classified) {
			attrs = append(attrs, "error_type", classified.ErrorType())
		}
		logger.Warn("conversion request failed", attrs...)
		if codeconverrors.IsRetryable(err) {
			return &command.AppError{Message: MsgConvertFailed + ": " + MsgTryAgain, Cause: err}
		}
		return &command.AppError{Message: MsgConvertFailed, Cause: err}
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return command.NewAppError(MsgConvertFailed)
	}

	if output == "" {
		fmt.Fprintln(h.out, result)
		return nil
	}

	target, err := h.outputPath(dir, output)
	if err != nil {
		return command.WrapAppError(err)
	}
	proceed, err := h.mayOverwrite(target, args.Bool(KeyForce))
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Fprintln(h.out, ui.NewStyles(h.out).RenderWarn("Not overwriting "+target))
		return nil
	}
	if err := os.WriteFile(target, []byte(result), 0o644); err != nil {
		return command.WrapAppError(err)
	}

	fmt.Fprintf(h.out, "Converted %s script written to %s\n", to, target)
	return nil
}

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if codeconverrors.Is(err, fs.ErrNotExist) {
		return "", command.WrapAppError(&codeconverrors.NotFoundError{Resource: "file", ID: path})
	}
	if err != nil {
		return "", command.WrapAppError(err)
	}
	if !utf8.Valid(data) {
		return "", command.AppErrorf("%s is not a UTF-8 text file", path)
	}
	return string(data), nil
}

func (h *Handlers) outputPath(dir, output string) (string, error) {
	if dir == "" {
		wd, err := h.getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Join(dir, output), nil
}

// mayOverwrite reports whether target can be written. A new file is
// always fine. An existing one needs force or the user's consent.
func (h *Handlers) mayOverwrite(target string, force bool) (bool, error) {
	info, err := os.Stat(target)
	if codeconverrors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, command.WrapAppError(err)
	}
	if info.IsDir() {
		return false, command.AppErrorf("%s is a directory", target)
	}
	if force {
		return true, nil
	}

	refuse := command.AppErrorf("%s already exists (use --force to overwrite)", target)
	if h.confirm == nil {
		return false, refuse
	}
	ok, err := h.confirm.Confirm(fmt.Sprintf("Overwrite %s?", filepath.Base(target)), target+" already exists.")
	if codeconverrors.Is(err, ui.ErrNotInteractive) {
		return false, refuse
	}
	if err != nil {
		return false, command.WrapAppError(err)
	}
	return ok, nil
}
