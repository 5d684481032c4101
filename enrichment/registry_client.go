package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RegistryConfig конфигурация клиента внешнего реестра
type RegistryConfig struct {
	BaseURL     string        `json:"base_url"`
	Endpoint    string        `json:"endpoint"` // метка источника, попадает в ключи сущностей
	APIKey      string        `json:"api_key"`
	Timeout     time.Duration `json:"timeout"`
	MaxRequests int           `json:"max_requests"` // максимум запросов в минуту
	Enabled     bool          `json:"enabled"`
}

// RegistryClient клиент внешнего реестра юрлиц и ИП.
// Реестр — черный ящик с простым контрактом запрос/ответ: на свободный
// текстовый запрос возвращает ноль и более записей-сущностей.
type RegistryClient struct {
	config  *RegistryConfig
	client  *http.Client
	cache   *RegistryCache
	limiter *rate.Limiter
}

// NewRegistryClient создает нового клиента внешнего реестра
func NewRegistryClient(config *RegistryConfig) *RegistryClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 100 // 100 запросов в минуту по умолчанию
	}
	if config.Endpoint == "" {
		config.Endpoint = "registry"
	}

	return &RegistryClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.MaxRequests)), 1),
	}
}

// SetCache устанавливает кэш для клиента
func (r *RegistryClient) SetCache(cache *RegistryCache) {
	r.cache = cache
}

// IsAvailable проверяет доступность клиента
func (r *RegistryClient) IsAvailable() bool {
	return r.config.Enabled && r.config.BaseURL != ""
}

// Endpoint возвращает метку источника
func (r *RegistryClient) Endpoint() string {
	return r.config.Endpoint
}

// registryRequest запрос к API реестра
type registryRequest struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// registryResponse ответ API реестра
type registryResponse struct {
	Items []*RegistryEntity `json:"items"`
}

// RegistryEntity запись внешнего реестра. Отсутствие поля означает
// "неизвестно", а не "пусто".
type RegistryEntity struct {
	ID               string           `json:"id"`
	INN              string           `json:"inn"`
	OGRN             string           `json:"ogrn"`
	OGRNIP           string           `json:"ogrnip"`
	FullName         string           `json:"full_name"`
	ShortName        string           `json:"short_name"`
	Status           string           `json:"status"`
	Phone            string           `json:"phone"`
	CharterCapital   string           `json:"charter_capital"`
	Activity         string           `json:"activity"`
	RegistrationDate string           `json:"registration_date"`
	RegistrationKind string           `json:"registration_kind"`
	RegisterAddress  *RegistryAddress `json:"register_address"`
}

// RegistryAddress адрес регистрации с возможным телефоном
type RegistryAddress struct {
	Value string `json:"value"`
	Phone string `json:"phone"`
}

// Search ищет записи реестра по свободному текстовому запросу.
// Соблюдает лимит частоты запросов; ответы кэшируются по тексту запроса.
func (r *RegistryClient) Search(ctx context.Context, query string) ([]*RegistryEntity, error) {
	if query == "" {
		return nil, nil
	}

	if r.cache != nil {
		if cached, found := r.cache.Get(query); found {
			return cached, nil
		}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ожидание лимита запросов прервано: %w", err)
	}

	requestData := registryRequest{Query: query, Count: 20}
	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := r.config.BaseURL + "/api/search/party"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.config.APIKey != "" {
		req.Header.Set("Authorization", "Token "+r.config.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос к внешнему реестру не выполнен: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать ответ реестра: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("внешний реестр вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var registryResp registryResponse
	if err := json.Unmarshal(body, &registryResp); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ реестра: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(query, registryResp.Items)
	}

	return registryResp.Items, nil
}

// BestPhone возвращает телефон записи: прямое поле предпочтительнее
// телефона из адреса регистрации
func (e *RegistryEntity) BestPhone() string {
	if e.Phone != "" {
		return e.Phone
	}
	if e.RegisterAddress != nil {
		return e.RegisterAddress.Phone
	}
	return ""
}

// BestOGRN возвращает ОГРН или ОГРНИП записи
func (e *RegistryEntity) BestOGRN() string {
	if e.OGRN != "" {
		return e.OGRN
	}
	return e.OGRNIP
}
