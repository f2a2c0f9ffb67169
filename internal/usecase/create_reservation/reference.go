package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vkarpenko/shine-booking/pkg/types"
)

// generateReference собирает референс вида SHN-20251015-1030-4F2A1C:
// префикс, дата и время слота, случайный суффикс. Коллизии практически
// исключены, но последним рубежом остаётся уникальный индекс в БД.
func generateReference(prefix string, date time.Time, start types.TimeString) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s-%s-%s-%s",
		prefix,
		date.Format("20060102"),
		strings.ReplaceAll(start.String(), ":", ""),
		suffix,
	)
}
