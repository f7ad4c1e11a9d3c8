package postgresosm

import (
	"encoding/json"
	"strings"

	"github.com/listing-resolver/internal/domain"
)

func parseTags(raw []byte) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}

	var tmp map[string]string
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return map[string]string{}
	}

	return tmp
}

func pickTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if val, ok := tags[key]; ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// featureName собирает многоязычное название. Основной тег name в Украине обычно украинский,
// поэтому он подставляется, если name:uk нет.
func featureName(name string, tags map[string]string) domain.MultiName {
	n := domain.MultiName{
		Uk: pickTag(tags, "name:uk"),
		Ru: pickTag(tags, "name:ru"),
		En: pickTag(tags, "name:en", "int_name"),
	}
	if n.Uk == "" {
		n.Uk = strings.TrimSpace(name)
	}
	return n
}

func featureKind(building, landuse string) string {
	if strings.TrimSpace(building) != "" {
		return KindBuilding
	}
	if landuse == "residential" {
		return KindLanduse
	}
	return ""
}
