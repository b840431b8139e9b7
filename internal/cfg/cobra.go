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

// Package cfg contains configuration helpers for agri-admin.
package cfg

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AddPersistentFlag adds a persistent flag `flag`, with default `def` and usage message `usage`,
// and it will also bind the flag to the viper `configKey`.
func AddPersistentFlag(cmd *cobra.Command, configKey, flag, usage string, def any) {
	switch v := def.(type) {
	case int:
		cmd.PersistentFlags().Int(flag, v, usage)
	case int64:
		cmd.PersistentFlags().Int64(flag, v, usage)
	case string:
		cmd.PersistentFlags().String(flag, v, usage)
	case bool:
		cmd.PersistentFlags().Bool(flag, v, usage)
	case []string:
		cmd.PersistentFlags().StringSlice(flag, v, usage)
	default:
		panic(fmt.Sprintf("Unsupported type: %T", v))
	}
	err := viper.BindPFlag(configKey, cmd.PersistentFlags().Lookup(flag))
	if err != nil {
		// impossible in this setup
		panic(err.Error())
	}
	viper.SetDefault(configKey, def)
}

// CheckURL checks that the configured value of each key is an absolute http(s) URL.
func CheckURL(keys ...string) error {
	var err error
	for _, k := range keys {
		raw := viper.GetString(k)
		if raw == "" {
			err = errors.Join(err, fmt.Errorf("%s is not set", k))
			continue
		}
		u, perr := url.Parse(raw)
		if perr != nil {
			err = errors.Join(err, fmt.Errorf("%s: invalid URL %q: %w", k, raw, perr))
			continue
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			err = errors.Join(err, fmt.Errorf("%s: %q is not an absolute http(s) URL", k, raw))
		}
	}
	return err
}

// CheckSet checks that the configured value of each key is not empty.
func CheckSet(keys ...string) error {
	var err error
	for _, k := range keys {
		if viper.GetString(k) == "" {
			err = errors.Join(err, fmt.Errorf("%s is not set", k))
		}
	}
	return err
}

// CheckFilesExist checks that all files exist and are not directories.
func CheckFilesExist(files ...string) error {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", f)
		}
	}
	return nil
}
