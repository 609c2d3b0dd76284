//go:build devfixtures

package fixtures

import (
	"testing"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
)

func TestFixtures_AreValid(t *testing.T) {
	now := time.Now()
	for _, s := range Submissions(now) {
		if !models.IsValidContactStatus(s.Status) {
			t.Errorf("submission %s has invalid status %q", s.Name, s.Status)
		}
	}
	logs := ActivityLogs(now)
	for i, l := range logs {
		if !models.IsValidAction(l.Action) {
			t.Errorf("entry %d has invalid action %q", i, l.Action)
		}
		if i > 0 && l.Timestamp.After(logs[i-1].Timestamp) {
			t.Error("activity fixtures must be newest first")
		}
	}
}
