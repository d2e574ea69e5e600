package services

import (
	"testing"
)

func TestNewTransactionService(t *testing.T) {
	// Nil collaborators are allowed; AMQP in particular is optional.
	service := NewTransactionService(nil, nil)

	if service == nil {
		t.Error("NewTransactionService should return a non-nil service")
	}
	if service.storage != nil {
		t.Error("NewTransactionService should set storage to nil when passed nil")
	}
	if service.amqpClient != nil {
		t.Error("NewTransactionService should set amqpClient to nil when passed nil")
	}
}

func TestTransactionService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		service := &TransactionService{}

		err := service.Close()

		if err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})
}
