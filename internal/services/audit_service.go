package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"pocketbook/internal/logger"
	"pocketbook/internal/models"
)

// Audit actions.
const (
	AuditLogin          = "LOGIN"
	AuditChangePassword = "CHANGE_PASSWORD"
	AuditSell           = "SELL_PRODUCT"
	AuditConsume        = "CONSUME_PRODUCT"
	AuditPayDebt        = "PAY_DEBT"
	AuditDelete         = "DELETE"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Failures are logged and never returned.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	log := logger.Get()

	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			log.Errorw("failed to marshal audit changes", "error", err, "action", action)
			data = []byte("{}")
		}
		changesJSON = string(data)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
