package worker

import (
	"github.com/spec-kit/support-intake/internal/service"
)

// StartAuditWorker registers completion audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
