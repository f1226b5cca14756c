package fake_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/llms/fake"
	"github.com/sevigo/lernkit/schema"
)

func TestLLM_GenerateContent(t *testing.T) {
	ctx := context.Background()

	t.Run("successful response cycle", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM([]string{"first", "second"})

		resp, err := fakeLLM.GenerateContent(ctx, nil)
		require.NoError(t, err)
		require.Len(t, resp.Choices, 1)
		assert.Equal(t, "first", resp.Choices[0].Content)

		resp, err = fakeLLM.GenerateContent(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "second", resp.Choices[0].Content)

		resp, err = fakeLLM.GenerateContent(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "first", resp.Choices[0].Content, "should cycle back to first response")
	})

	t.Run("empty responses", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM(nil)

		resp, err := fakeLLM.GenerateContent(ctx, nil)
		assert.EqualError(t, err, "no responses configured")
		assert.Nil(t, resp)
	})

	t.Run("records last prompt", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM([]string{"ok"})

		_, err := fakeLLM.GenerateContent(ctx, []schema.MessageContent{
			schema.NewHumanMessage("what is the AHV?"),
		})
		require.NoError(t, err)

		prompt, ok := fakeLLM.LastPrompt()
		assert.True(t, ok)
		assert.Equal(t, "what is the AHV?", prompt)
	})
}

func TestLLM_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("successful call", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM([]string{"hello world"})

		result, err := fakeLLM.Call(ctx, "test prompt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", result)
		assert.Equal(t, 1, fakeLLM.GetCallCount())
	})

	t.Run("empty responses", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM(nil)

		result, err := fakeLLM.Call(ctx, "test prompt")
		require.Error(t, err)
		assert.Empty(t, result)
	})
}

func TestLLM_Reset(t *testing.T) {
	fakeLLM := fake.NewFakeLLM([]string{"first", "second"})

	_, err := fakeLLM.Call(context.Background(), "prompt")
	require.NoError(t, err)

	fakeLLM.Reset()

	result, err := fakeLLM.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "first", result, "should start from first response after reset")
	assert.Equal(t, 1, fakeLLM.GetCallCount())
}

func TestLLM_AddResponse(t *testing.T) {
	fakeLLM := fake.NewFakeLLM([]string{"initial"})
	fakeLLM.AddResponse("added response")

	_, err := fakeLLM.Call(context.Background(), "prompt")
	require.NoError(t, err)

	result, err := fakeLLM.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "added response", result)
}
