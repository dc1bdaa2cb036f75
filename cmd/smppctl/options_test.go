package main

import (
	"io"
	"testing"

	"github.com/danmuck/smppctl/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigPath, opts.ConfigPath)
	assert.Equal(t, segment.GSM7, opts.Coding)
	assert.False(t, opts.sending())
	assert.False(t, opts.Listen)
}

func TestParseOptionsSend(t *testing.T) {
	opts, err := parseOptions([]string{"-config", "x.yaml", "-to", "15550001111", "-text", "héllo", "-coding", "UCS2", "-listen"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", opts.ConfigPath)
	assert.True(t, opts.sending())
	assert.Equal(t, segment.UCS2, opts.Coding)
	assert.True(t, opts.Listen)
}

func TestParseOptionsRejects(t *testing.T) {
	cases := [][]string{
		{"-text", "orphan"},
		{"-to", "123"},
		{"-coding", "ebcdic"},
		{"-nope"},
		{"extra"},
	}
	for _, args := range cases {
		_, err := parseOptions(args, io.Discard)
		assert.Error(t, err, "args=%v", args)
	}
}
