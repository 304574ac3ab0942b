package magento

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
)

// attributeState — кэш сведений об одном коде атрибута в пределах сессии.
// Признак probed отделён от exists: неудачное создание не должно
// приводить к повторному зондированию того же кода.
type attributeState struct {
	probed        bool
	exists        bool
	optionsLoaded bool
	options       map[string]string // метка опции → идентификатор
}

// Session кэширует схему атрибутов на один прогон синхронизации:
// не более одного зондирующего запроса на код атрибута и одной выборки
// опций за сессию. Сессия не предназначена для конкурентного использования
// и не должна переживать прогон — устаревшие идентификаторы опций ведут
// к некорректным записям на платформе.
type Session struct {
	client *Client
	states map[string]*attributeState
}

// SessionFactory выдаёт свежую сессию на каждый прогон.
type SessionFactory struct {
	client *Client
}

func NewSessionFactory(client *Client) *SessionFactory {
	return &SessionFactory{client: client}
}

func (f *SessionFactory) NewSession() usecase.AttributeSession {
	return &Session{
		client: f.client,
		states: make(map[string]*attributeState),
	}
}

// EnsureAttribute гарантирует существование атрибута на платформе:
// зондирует его, при 404 создаёт и привязывает к первой группе набора
// атрибутов. Повторные вызовы для того же кода обслуживаются из кэша.
func (s *Session) EnsureAttribute(ctx context.Context, code, label, frontendInput string) error {
	state := s.state(code)
	if state.exists {
		return nil
	}

	if !state.probed {
		state.probed = true

		err := s.client.do(ctx, http.MethodGet, "products/attributes/"+url.PathEscape(code), nil, nil)
		if err == nil {
			state.exists = true
			return nil
		}

		if !errors.Is(err, e.ErrRemoteNotFound) {
			return fmt.Errorf("%w: probe %s: %v", e.ErrAttributeProvision, code, err)
		}
	}

	if err := s.createAttribute(ctx, code, label, frontendInput); err != nil {
		return err
	}

	state.exists = true
	return nil
}

// OptionID возвращает идентификатор опции select-атрибута по её метке,
// создавая опцию при отсутствии. Список опций загружается с платформы
// не более одного раза за сессию. Вызывается только после EnsureAttribute.
func (s *Session) OptionID(ctx context.Context, code, label string) (string, error) {
	state := s.state(code)

	if !state.optionsLoaded {
		if err := s.loadOptions(ctx, code, state); err != nil {
			return "", err
		}
	}

	if id, ok := state.options[label]; ok {
		return id, nil
	}

	id, err := s.createOption(ctx, code, label)
	if err != nil {
		return "", err
	}

	state.options[label] = id
	return id, nil
}

func (s *Session) state(code string) *attributeState {
	if state, ok := s.states[code]; ok {
		return state
	}

	state := &attributeState{}
	s.states[code] = state
	return state
}

func (s *Session) createAttribute(ctx context.Context, code, label, frontendInput string) error {
	payload := attributePayload{
		Attribute: attributeData{
			AttributeCode:        code,
			FrontendInput:        frontendInput,
			DefaultFrontendLabel: label,
			Scope:                "global",
			IsRequired:           false,
		},
	}

	if err := s.client.do(ctx, http.MethodPost, "products/attributes", payload, nil); err != nil {
		return fmt.Errorf("%w: create %s: %v", e.ErrAttributeProvision, code, err)
	}

	groupID, err := s.firstAttributeGroupID(ctx)
	if err != nil {
		return fmt.Errorf("%w: resolve group for %s: %v", e.ErrAttributeProvision, code, err)
	}

	assign := assignAttributePayload{
		AttributeSetID:   s.client.cfg.AttributeSetID,
		AttributeGroupID: groupID,
		AttributeCode:    code,
		SortOrder:        0,
	}
	if err := s.client.do(ctx, http.MethodPost, "products/attribute-sets/attributes", assign, nil); err != nil {
		return fmt.Errorf("%w: assign %s: %v", e.ErrAttributeProvision, code, err)
	}

	return nil
}

// firstAttributeGroupID возвращает первую группу набора атрибутов.
// Используется только она — упрощение, а не универсальный выбор группы.
func (s *Session) firstAttributeGroupID(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("searchCriteria[filter_groups][0][filters][0][field]", "attribute_set_id")
	query.Set("searchCriteria[filter_groups][0][filters][0][value]", strconv.FormatInt(s.client.cfg.AttributeSetID, 10))
	query.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")
	query.Set("searchCriteria[pageSize]", "1")

	var groups attributeGroupList
	if err := s.client.do(ctx, http.MethodGet, "products/attribute-sets/groups/list?"+query.Encode(), nil, &groups); err != nil {
		return "", err
	}

	if len(groups.Items) == 0 {
		return "", e.ErrAttributeGroupAbsent
	}

	return groups.Items[0].AttributeGroupID, nil
}

// loadOptions загружает и кэширует список опций атрибута.
// Опция-заглушка платформы с пустым значением отбрасывается:
// она никогда не является настоящим совпадением.
func (s *Session) loadOptions(ctx context.Context, code string, state *attributeState) error {
	var options []attributeOption
	if err := s.client.do(ctx, http.MethodGet, "products/attributes/"+url.PathEscape(code)+"/options", nil, &options); err != nil {
		return err
	}

	state.options = make(map[string]string, len(options))
	for _, option := range options {
		if option.Value == "" {
			continue
		}
		state.options[option.Label] = option.Value
	}

	state.optionsLoaded = true
	return nil
}

func (s *Session) createOption(ctx context.Context, code, label string) (string, error) {
	payload := optionPayload{Option: attributeOption{Label: label}}

	var raw json.RawMessage
	if err := s.client.do(ctx, http.MethodPost, "products/attributes/"+url.PathEscape(code)+"/options", payload, &raw); err != nil {
		return "", err
	}

	// Платформа возвращает идентификатор новой опции строкой,
	// иногда с префиксом id_
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", err
	}

	return trimOptionPrefix(id), nil
}

func trimOptionPrefix(id string) string {
	const prefix = "id_"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		return id[len(prefix):]
	}

	return id
}
