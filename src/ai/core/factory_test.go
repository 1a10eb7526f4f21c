package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoClient struct{ defaults Options }

func (e echoClient) Respond(ctx context.Context, input string, opts Options) (string, error) {
	return Merge(e.defaults, opts).Model + ":" + input, nil
}

func TestNewClient_ResolvesAliasesCaseInsensitively(t *testing.T) {
	RegisterProvider("echo-test", func(cfg FactoryConfig) (Client, error) {
		return echoClient{defaults: Options{Model: cfg.Model}}, nil
	}, "Echo-Alias")

	c, err := NewClient(FactoryConfig{Provider: "ECHO-ALIAS", Model: "m1"})
	require.NoError(t, err)

	out, err := c.Respond(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "m1:hi", out)

	out, err = c.Respond(context.Background(), "hi", Options{Model: "m2"})
	require.NoError(t, err)
	assert.Equal(t, "m2:hi", out)

	assert.Contains(t, Registered(), "echo-test")
	assert.Contains(t, Registered(), "echo-alias")
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(FactoryConfig{Provider: "nope"})
	assert.EqualError(t, err, `ai: provider "nope" not registered`)
}

func TestResolveModelName(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", ResolveModelName("gemini25", ""))
	assert.Equal(t, "custom", ResolveModelName("gemini25", " custom "))
	assert.Equal(t, "unknown", ResolveModelName("mystery", ""))
}
