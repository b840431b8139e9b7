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

package cfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-dataspace/agri-admin/internal/cfg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPersistentFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cfg.AddPersistentFlag(cmd, "test.origins", "test-origins", "origins", []string{"http://localhost"})
	cfg.AddPersistentFlag(cmd, "test.port", "test-port", "port", 8080)

	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--test-port", "9090"}))
	assert.Equal(t, 9090, viper.GetInt("test.port"))
	assert.Equal(t, []string{"http://localhost"}, viper.GetStringSlice("test.origins"))
	assert.Panics(t, func() { cfg.AddPersistentFlag(cmd, "test.f", "test-f", "f", 1.5) })
}

func TestCheckURL(t *testing.T) {
	viper.Set("test.good", "https://connector.example.org/management")
	viper.Set("test.relative", "/management")
	viper.Set("test.ftp", "ftp://example.org")
	t.Cleanup(func() {
		viper.Set("test.good", nil)
		viper.Set("test.relative", nil)
		viper.Set("test.ftp", nil)
	})

	assert.NoError(t, cfg.CheckURL("test.good"))
	err := cfg.CheckURL("test.good", "test.relative", "test.ftp", "test.unset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.relative")
	assert.Contains(t, err.Error(), "test.ftp")
	assert.Contains(t, err.Error(), "test.unset is not set")
	assert.Error(t, cfg.CheckSet("test.unset"))
}

func TestCheckFilesExist(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	assert.NoError(t, cfg.CheckFilesExist(f))
	assert.Error(t, cfg.CheckFilesExist(dir))
	assert.Error(t, cfg.CheckFilesExist(filepath.Join(dir, "missing")))
}
