package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/graphvinci/graphvinci/internal/domain"
)

const previewWidth = 60

// FormatHistoryList renders saved operations as a table, oldest first.
func FormatHistoryList(entries []*domain.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No saved operations.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			StyleGreen.Render(strconv.FormatInt(e.HashCode, 10)),
			operationLabel(e.Type),
			e.Op,
			Truncate(e.Preview, previewWidth),
			Dim(HumanTimestampFrom(e.CreatedAt, now)),
		})
	}
	return RenderTable([]string{"HASH", "TYPE", "OP", "PREVIEW", "SAVED"}, rows)
}

// FormatHistoryEntry renders one saved operation in full.
func FormatHistoryEntry(e *domain.HistoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", operationLabel(e.Type), Bold(e.Op), Dim("#"+strconv.FormatInt(e.HashCode, 10)))
	if e.Endpoint != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("endpoint:"), e.Endpoint)
	}
	b.WriteString("\n" + e.Operation + "\n")
	if len(e.Variables) > 0 {
		b.WriteString("\n" + Dim("variables:") + "\n" + string(e.Variables) + "\n")
	}
	return b.String()
}

// HistoryOptionLabel is the one-line label used in history pickers.
func HistoryOptionLabel(e *domain.HistoryEntry) string {
	return fmt.Sprintf("%s %s  %s", e.Type, e.Op, Truncate(e.Preview, previewWidth))
}

func operationLabel(t domain.OperationType) string {
	switch t {
	case domain.OperationMutation:
		return StyleYellow.Render(string(t))
	case domain.OperationSubscription:
		return StylePurple.Render(string(t))
	default:
		return StyleBlue.Render(string(t))
	}
}
