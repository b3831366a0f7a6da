package augment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mooreml/moretran/internal/arbiter"
)

func ollamaServer(t *testing.T, handler func(req ollamaRequest) (string, int)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		response, status := handler(req)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ollamaResponse{Response: response})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaGenerate(t *testing.T) {
	srv := ollamaServer(t, func(req ollamaRequest) (string, int) {
		if req.Model != "aya" {
			t.Errorf("model = %q, want aya", req.Model)
		}
		if !strings.Contains(req.Prompt, "Je vais au marché.") {
			t.Errorf("prompt missing the source sentence: %q", req.Prompt)
		}
		if !strings.Contains(req.Prompt, "French") || !strings.Contains(req.Prompt, "Mooré") {
			t.Errorf("prompt missing the language pair: %q", req.Prompt)
		}
		return "N zɩ̀ nà zaabā.", http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	c, err := p.Generate(context.Background(), "Je vais au marché.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Target != "N zɩ̀ nà zaabā." {
		t.Errorf("target = %q", c.Target)
	}
	if c.Origin != arbiter.OriginAugment {
		t.Errorf("origin = %s, want augment", c.Origin)
	}
	if c.Confidence != DefaultOllamaConfidence {
		t.Errorf("confidence = %f, want default %f", c.Confidence, DefaultOllamaConfidence)
	}
	if c.Provider != "ollama" {
		t.Errorf("provider = %q", c.Provider)
	}
}

func TestOllamaGenerate_CleansArtifacts(t *testing.T) {
	srv := ollamaServer(t, func(ollamaRequest) (string, int) {
		return `<think>marché means market</think>Translation: "N zɩ̀ nà zaabā."`, http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	c, err := p.Generate(context.Background(), "Je vais au marché.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Target != "N zɩ̀ nà zaabā." {
		t.Errorf("target = %q, artifacts not cleaned", c.Target)
	}
}

func TestOllamaGenerate_RestoresProtectedSpans(t *testing.T) {
	srv := ollamaServer(t, func(req ollamaRequest) (string, int) {
		if !strings.Contains(req.Prompt, "[PH0]") {
			t.Errorf("prompt should carry the placeholder: %q", req.Prompt)
		}
		if strings.Contains(req.Prompt, "Sentence: \"Il a 25") {
			t.Errorf("raw number leaked into the prompt: %q", req.Prompt)
		}
		return "A tara [PH0] bʋʋse.", http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	c, err := p.Generate(context.Background(), "Il a 25 chèvres.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Target != "A tara 25 bʋʋse." {
		t.Errorf("target = %q, placeholder not restored", c.Target)
	}
}

func TestOllamaGenerate_DroppedMarkerFails(t *testing.T) {
	srv := ollamaServer(t, func(ollamaRequest) (string, int) {
		// The model translated around the [PH0] marker instead of keeping it.
		return "A tara bʋʋse.", http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	_, err := p.Generate(context.Background(), "Il a 25 chèvres.")
	if err == nil || !strings.Contains(err.Error(), "dropped 1 of 1") {
		t.Fatalf("err = %v, want dropped-span error", err)
	}
}

func TestOllamaGenerate_EmptyResponse(t *testing.T) {
	srv := ollamaServer(t, func(ollamaRequest) (string, int) {
		return "", http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	if _, err := p.Generate(context.Background(), "Bonjour."); err == nil {
		t.Fatal("expected an error for an empty translation")
	}
}

func TestOllamaGenerate_ServerError(t *testing.T) {
	srv := ollamaServer(t, func(ollamaRequest) (string, int) {
		return "", http.StatusInternalServerError
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0)
	_, err := p.Generate(context.Background(), "Bonjour.")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestOllamaGenerate_CustomConfidence(t *testing.T) {
	srv := ollamaServer(t, func(ollamaRequest) (string, int) {
		return "Ne y windga.", http.StatusOK
	})

	p := NewOllamaProvider("aya", srv.URL, "French", "Mooré", 0.35)
	c, err := p.Generate(context.Background(), "Bonjour.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Confidence != 0.35 {
		t.Errorf("confidence = %f, want 0.35", c.Confidence)
	}
}
