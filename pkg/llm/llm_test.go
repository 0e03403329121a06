package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"shotName":  {Type: TypeString},
			"riskLevel": {Type: TypeString, Enum: []string{"Low", "Medium", "High"}},
			"tips":      {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
		Required:      []string{"shotName", "riskLevel", "tips"},
		PropertyOrder: []string{"shotName", "riskLevel", "tips"},
	}
}

func TestClaudeChat(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"shotName\":\"Pull\"}"}]}`))
	}))
	defer srv.Close()

	c := NewClaude("secret")
	c.baseURL = srv.URL

	out, err := c.Chat(context.Background(), "which shot?", testSchema())
	require.NoError(t, err)
	assert.Equal(t, `{"shotName":"Pull"}`, out)

	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].(string)
	assert.True(t, strings.HasPrefix(content, "which shot?"))
	assert.Contains(t, content, `"riskLevel"`)
	assert.Equal(t, "claude-sonnet-4-20250514", gotBody["model"])
}

func TestClaudeChatStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c := NewClaude("bad")
	c.baseURL = srv.URL

	_, err := c.Chat(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestOpenAIChatSendsStrictSchema(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAIWithModel("sk-test", "gpt-4o-mini")
	o.baseURL = srv.URL

	out, err := o.Chat(context.Background(), "which shot?", testSchema())
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])

	format := gotBody["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]interface{})
	assert.Equal(t, true, js["strict"])
	schema := js["schema"].(map[string]interface{})
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Len(t, schema["required"], 3)
}

func TestOpenAIChatRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"","refusal":"no"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test")
	o.baseURL = srv.URL

	_, err := o.Chat(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestGeminiChat(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"shotName\":\"Cover Drive\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	g := NewGemini("test-key")
	g.baseURL = srv.URL + "/"

	out, err := g.Chat(context.Background(), "which shot?", testSchema())
	require.NoError(t, err)
	assert.Equal(t, `{"shotName":"Cover Drive"}`, out)
	assert.Contains(t, gotBody, "which shot?")
	assert.Contains(t, gotBody, "responseSchema")
}

func TestSchemaStrictIsRecursive(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"inner": {Type: TypeObject, Properties: map[string]*Schema{"x": {Type: TypeNumber}}, Required: []string{"x"}},
		},
		Required: []string{"inner"},
	}
	out := s.strict()
	inner := out["properties"].(map[string]interface{})["inner"].(map[string]interface{})
	assert.Equal(t, false, inner["additionalProperties"])
}

func TestFactoryCreateLLM(t *testing.T) {
	f := NewFactory()

	l, err := f.CreateLLM(ProviderGemini, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", l.GetModel())

	l, err = f.CreateLLM(ProviderClaude, map[string]string{"api_key": "k", "model": "claude-x"})
	require.NoError(t, err)
	assert.Equal(t, "claude-x", l.GetModel())

	_, err = f.CreateLLM(ProviderOpenAI, map[string]string{})
	assert.Error(t, err)

	_, err = f.CreateLLM("mistral", map[string]string{"api_key": "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: gemini, claude, openai")

	assert.Len(t, f.GetAvailableProviders(), 3)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")

	provider, cfg := EnvConfig("", "")
	assert.Equal(t, ProviderGemini, provider)
	assert.Equal(t, "legacy-key", cfg["api_key"])
	assert.Equal(t, "gemini-2.0-flash", cfg["model"])

	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk")
	provider, cfg = EnvConfig("", "gpt-override")
	assert.Equal(t, ProviderOpenAI, provider)
	assert.Equal(t, "sk", cfg["api_key"])
	assert.Equal(t, "gpt-override", cfg["model"])

	provider, _ = EnvConfig("claude", "")
	assert.Equal(t, ProviderClaude, provider)
}
