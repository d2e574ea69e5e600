package services

import (
	"context"
	"testing"
	"time"
)

func TestMaintenanceProcessor_NotInitialized(t *testing.T) {
	processor := NewMaintenanceProcessor(nil)

	_, err := processor.ProcessDueMaintenance(context.Background(), time.Now())
	if err == nil {
		t.Error("expected error when processor has no storage")
	}
}
