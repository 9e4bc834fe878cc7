package mqtt

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	DefaultTopicPrefix     = "wan-monitor"
	DefaultDiscoveryPrefix = "homeassistant"
)

type Topics struct {
	prefix          string
	discoveryPrefix string
	objectID        string
}

func NewTopics(prefix, discoveryPrefix, accessoryName string) *Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}

	if discoveryPrefix == "" {
		discoveryPrefix = DefaultDiscoveryPrefix
	}

	return &Topics{
		prefix:          strings.TrimSuffix(prefix, "/"),
		discoveryPrefix: strings.TrimSuffix(discoveryPrefix, "/"),
		objectID:        ObjectID(accessoryName),
	}
}

func (t *Topics) ObjectID() string {
	return t.objectID
}

func (t *Topics) Discovery() string {
	return fmt.Sprintf("%s/binary_sensor/%s/config", t.discoveryPrefix, t.objectID)
}

func (t *Topics) State() string {
	return fmt.Sprintf("%s/%s/state", t.prefix, t.objectID)
}

func (t *Topics) Attributes() string {
	return fmt.Sprintf("%s/%s/attributes", t.prefix, t.objectID)
}

func (t *Topics) Availability() string {
	return fmt.Sprintf("%s/%s/availability", t.prefix, t.objectID)
}

// ObjectID turns a display name into a topic-safe identifier, e.g. "Secondary Internet" -> "secondary_internet".
func ObjectID(name string) string {
	var b strings.Builder

	underscore := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false

			continue
		}

		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	id := strings.TrimSuffix(b.String(), "_")
	if id == "" {
		return "wan_monitor"
	}

	return id
}
