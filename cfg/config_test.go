// Copyright 2015 Google Inc. All Rights Reserved.
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

package cfg

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsAndDecodeDefaults(t *testing.T) {
	viper.Reset()
	v := viper.GetViper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	require.NoError(t, BindFlags(fs))
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, v.BindPFlags(fs))

	c, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, Octal(0644), c.FileSystem.FileMode)
	assert.Equal(t, Octal(0755), c.FileSystem.DirMode)
	assert.Equal(t, PathList{}, c.FileSystem.PreloadPath)
	assert.Equal(t, ":9090", c.Metrics.ListenAddr)
}

func TestDecodeOverridesFileMode(t *testing.T) {
	viper.Reset()
	v := viper.GetViper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	require.NoError(t, BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--file-mode=0600", "--preload-path=/a:/b:/c"}))
	require.NoError(t, v.BindPFlags(fs))

	c, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, Octal(0600), c.FileSystem.FileMode)
	assert.Equal(t, PathList{"/a", "/b", "/c"}, c.FileSystem.PreloadPath)
}

func TestDecodeRejectsInvalidOctal(t *testing.T) {
	viper.Reset()
	v := viper.GetViper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	require.NoError(t, BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--file-mode=not-octal"}))
	require.NoError(t, v.BindPFlags(fs))

	_, err := Decode(v)
	assert.Error(t, err)
}
