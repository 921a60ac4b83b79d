package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sharedHTTPClient используется всеми вызовами; запас по таймауту
// рассчитан на медленные ответы модели.
var sharedHTTPClient = &http.Client{
	Timeout: 2 * time.Minute,
}

const (
	completionsPath = "/chat/completions"
	defaultModel    = "deepseek-chat"

	// Рекомендованная температура для DeepSeek-V3.
	defaultTemperature = 1.3

	maxBodyBytes = 1 << 20 // 1 MiB
)

// Роли сообщений в диалоге с моделью.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrUnavailable возвращается, когда ключ API нигде не настроен.
	// Вызывающая сторона обязана подставить детерминированное резервное
	// значение вместо того, чтобы показывать эту ошибку пользователю.
	ErrUnavailable = errors.New("generation endpoint unavailable: no API key configured")

	// ErrUpstreamRejected возвращается при не-2xx ответе сервиса генерации.
	ErrUpstreamRejected = errors.New("generation endpoint rejected request")

	// ErrTransport возвращается при сетевой ошибке.
	ErrTransport = errors.New("generation endpoint transport failure")
)

// Message - одно сообщение диалога в формате сервиса генерации.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Credentials - учётные данные вызова сервиса генерации.
type Credentials struct {
	APIKey string
	Model  string
}

// CredentialSource отдаёт сохранённые пользователем учётные данные.
// Они имеют приоритет над конфигурацией процесса.
type CredentialSource interface {
	APIKey() (string, error)
	ModelID() (string, error)
}

// Client - клиент сервиса генерации DeepSeek. Отвечает за разрешение
// учётных данных и постройку запроса; ответ модели возвращает как сырой
// текст, не разбирая и не проверяя его.
type Client struct {
	source   CredentialSource
	fallback Credentials
	baseURL  string
	httpc    *http.Client
}

// NewClient создаёт новый экземпляр Client. source может быть nil,
// тогда используются только учётные данные из конфигурации.
func NewClient(source CredentialSource, fallback Credentials, baseURL string) *Client {
	return &Client{
		source:   source,
		fallback: fallback,
		baseURL:  baseURL,
		httpc:    sharedHTTPClient,
	}
}

// resolve возвращает действующие учётные данные: сначала сохранённые
// пользователем настройки, затем конфигурация процесса.
func (c *Client) resolve() Credentials {
	cred := c.fallback
	if c.source != nil {
		if key, err := c.source.APIKey(); err == nil && key != "" {
			cred.APIKey = key
		}
		if model, err := c.source.ModelID(); err == nil && model != "" {
			cred.Model = model
		}
	}
	if cred.Model == "" {
		cred.Model = defaultModel
	}
	return cred
}

// Available сообщает, настроен ли ключ API. Отсутствие ключа не является
// ошибкой самого клиента, только вызовов Complete.
func (c *Client) Available() bool {
	return c.resolve().APIKey != ""
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	Stream         bool           `json:"stream"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete отправляет диалог сервису генерации и возвращает сырой текст ответа.
// jsonMode просит сервис ограничить вывод одним JSON-объектом; это лишь
// подсказка - синтаксическая корректность вывода не гарантируется.
func (c *Client) Complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	cred := c.resolve()
	if cred.APIKey == "" {
		return "", ErrUnavailable
	}

	format := responseFormat{Type: "text"}
	if jsonMode {
		format.Type = "json_object"
	}

	body := chatRequest{
		Model:          cred.Model,
		Messages:       messages,
		Stream:         false,
		ResponseFormat: format,
		Temperature:    defaultTemperature,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
	}

	var cr chatResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBytes, &cr) == nil && cr.Error != nil {
			return "", fmt.Errorf("%w: %s: %s", ErrUpstreamRejected, cr.Error.Type, cr.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrUpstreamRejected, resp.StatusCode, truncate(string(respBytes), 200))
	}

	if err := json.Unmarshal(respBytes, &cr); err != nil {
		return "", fmt.Errorf("%w: parsing response JSON: %v", ErrUpstreamRejected, err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamRejected)
	}

	return cr.Choices[0].Message.Content, nil
}

// truncate ограничивает строку maxLen рунами, добавляя "..." при обрезке.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
