package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FallbackMessage reemplaza la respuesta del oraculo cuando la llamada falla.
const FallbackMessage = "I apologize, but I'm having trouble connecting to the medical analysis service. Please try again later or consult with a healthcare professional directly."

const predictPath = "/api/predict"

var ErrEmptySymptoms = errors.New("symptom text is empty")

// Classifier clasifica una descripcion de sintomas contra el oraculo remoto.
type Classifier interface {
	Classify(ctx context.Context, symptomText string) Result
}

// Result es la respuesta del oraculo o el valor de fallo con el mensaje de
// respaldo. Nunca se propaga como error duro.
type Result struct {
	Text   string
	Failed bool
	Err    error
}

// Error describe un fallo de transporte o de respuesta del oraculo.
type Error struct {
	StatusCode int
	Detail     string
	Cause      error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.StatusCode != 0:
		return fmt.Sprintf("oracle error: status=%d: %s", e.StatusCode, e.Detail)
	case e.Detail != "":
		return "oracle error: " + e.Detail
	case e.Cause != nil:
		return "oracle error: " + e.Cause.Error()
	default:
		return fmt.Sprintf("oracle error: status=%d", e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPClient implementa Classifier contra POST /api/predict.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye el cliente. Un timeout <= 0 deja la llamada sin limite.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) Classify(ctx context.Context, symptomText string) Result {
	if strings.TrimSpace(symptomText) == "" {
		return failure(ErrEmptySymptoms)
	}

	answer, err := c.predict(ctx, symptomText)
	if err != nil {
		c.logger.Warn("oracle classify failed", zap.Error(err))
		return failure(err)
	}
	return Result{Text: answer}
}

func (c *HTTPClient) predict(ctx context.Context, question string) (string, error) {
	bodyBytes, err := json.Marshal(predictRequest{Question: question})
	if err != nil {
		return "", &Error{Cause: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &Error{Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Cause: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := http.StatusText(resp.StatusCode)
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil && strings.TrimSpace(er.Detail) != "" {
			detail = er.Detail
		}
		return "", &Error{StatusCode: resp.StatusCode, Detail: detail}
	}

	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Cause: fmt.Errorf("unmarshal response: %w", err)}
	}
	if pr.Answer == nil {
		return "", &Error{StatusCode: resp.StatusCode, Detail: "response has no answer"}
	}

	return *pr.Answer, nil
}

func failure(err error) Result {
	return Result{Text: FallbackMessage, Failed: true, Err: err}
}

type predictRequest struct {
	Question string `json:"question"`
}

type predictResponse struct {
	Answer *string `json:"answer"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
