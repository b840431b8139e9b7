// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"log/slog"
)

type contextKeyType string

const contextKey contextKeyType = "logger"

// Inject stores the logger in the context.
func Inject(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// Extract returns the logger stored in the context. If no logger is found, it returns the
// default slog logger.
func Extract(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// InjectLabels adds labels to the logger in the context and returns both the new context
// and the labelled logger.
func InjectLabels(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	logger := Extract(ctx).With(args...)
	return Inject(ctx, logger), logger
}
