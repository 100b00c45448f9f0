package entrytype

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

// MessageType is the severity of an admin message.
type MessageType string

const (
	MessageStop MessageType = "stop"
	MessageInfo MessageType = "info"
)

// MessagePath is where admin messages are rendered.
const MessagePath = "/admin/message"

// AdminMessage rejects an admin configuration. Args fill the message
// template named by Key.
type AdminMessage struct {
	Key  string
	Args map[string]string
	Type MessageType
}

func (m *AdminMessage) Error() string {
	if len(m.Args) == 0 {
		return m.Key
	}
	keys := make([]string, 0, len(m.Args))
	for k := range m.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m.Args[k]
	}
	return fmt.Sprintf("%s (%s)", m.Key, strings.Join(parts, ", "))
}

// URL returns the admin message page showing this message.
func (m *AdminMessage) URL() string {
	q := url.Values{}
	q.Set("key", m.Key)
	q.Set("type", string(m.Type))
	for k, v := range m.Args {
		q.Set("arg."+k, v)
	}
	return MessagePath + "?" + q.Encode()
}

// ParseAdminMessage rebuilds a message from the query of its URL.
func ParseAdminMessage(q url.Values) *AdminMessage {
	m := &AdminMessage{
		Key:  q.Get("key"),
		Type: MessageType(q.Get("type")),
		Args: make(map[string]string),
	}
	if m.Type == "" {
		m.Type = MessageInfo
	}
	for k, v := range q {
		if name, ok := strings.CutPrefix(k, "arg."); ok && len(v) > 0 {
			m.Args[name] = v[0]
		}
	}
	return m
}

// TemplateData converts Args for a message template.
func (m *AdminMessage) TemplateData() map[string]any {
	data := make(map[string]any, len(m.Args))
	for k, v := range m.Args {
		data[k] = v
	}
	return data
}

// GenericAttributeError rejects an end user answer.
type GenericAttributeError struct {
	EntryID       int
	TitleQuestion string
	ErrorMessage  string
	// Mandatory is set when the answer was missing rather than invalid.
	Mandatory bool
}

func (e *GenericAttributeError) Error() string {
	return fmt.Sprintf("%s: %s", e.TitleQuestion, e.ErrorMessage)
}

// NewMandatoryError reports a missing answer to a mandatory entry.
func NewMandatoryError(entry *models.Entry, messages Localizer, locale string) *GenericAttributeError {
	msg := i18n.MandatoryQuestion
	if messages != nil {
		msg = messages.Localize(locale, i18n.MandatoryQuestion, nil)
	}
	return &GenericAttributeError{
		EntryID:       entry.ID,
		TitleQuestion: entry.Title,
		ErrorMessage:  msg,
		Mandatory:     true,
	}
}
