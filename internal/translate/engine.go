package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/text/language"

	"github.com/andeanmarket/catalog-service/config"
)

// Engine is the black-box translator. It knows nothing about caching.
type Engine interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// LibreEngine talks to a self-hosted LibreTranslate instance. The engine runs
// locally, so the client carries no timeout; remote failures still surface as
// errors for the filler to absorb.
type LibreEngine struct {
	baseURL string
	client  *http.Client
}

func NewLibreEngine(cfg *config.TranslationConfig) (*LibreEngine, error) {
	for _, lang := range []string{cfg.SourceLang, cfg.TargetLang} {
		if _, err := NormalizeLang(lang); err != nil {
			return nil, fmt.Errorf("unsupported language %q: %w", lang, err)
		}
	}
	return &LibreEngine{
		baseURL: cfg.EngineURL,
		client:  &http.Client{},
	}, nil
}

func (e *LibreEngine) Name() string { return "libretranslate" }

func (e *LibreEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "" {
		return "", nil
	}

	body, err := json.Marshal(map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation engine request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation engine: unexpected status code: %s", resp.Status)
	}

	var payload struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("translation engine: decoding response: %w", err)
	}
	if payload.TranslatedText == "" {
		return "", fmt.Errorf("translation engine returned empty text")
	}
	return payload.TranslatedText, nil
}

// NormalizeLang validates a language code and reduces it to its base form
// ("es-CO" → "es").
func NormalizeLang(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", err
	}
	base, _ := tag.Base()
	return base.String(), nil
}
