package app

import (
	"fmt"

	auditHTTP "github.com/keyfold/keyfold/internal/audit/http"
	auditRepository "github.com/keyfold/keyfold/internal/audit/repository"
	auditService "github.com/keyfold/keyfold/internal/audit/service"
	auditUseCase "github.com/keyfold/keyfold/internal/audit/usecase"
)

// AuditSigner returns the HMAC signer keyed from the master key.
func (c *Container) AuditSigner() (auditService.Signer, error) {
	c.auditSignerInit.Do(func() {
		masterKey, err := c.MasterKey()
		if err != nil {
			c.initErrors["auditSigner"] = fmt.Errorf("failed to get master key for audit signer: %w", err)
			return
		}
		c.auditSigner = auditService.NewSigner(masterKey)
	})
	if storedErr, exists := c.initErrors["auditSigner"]; exists {
		return nil, storedErr
	}
	return c.auditSigner, nil
}

// AuditEventRepository returns the audit event repository based on the database driver.
func (c *Container) AuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	c.auditEventRepoInit.Do(func() {
		repo, err := c.initAuditEventRepository()
		if err != nil {
			c.initErrors["auditEventRepo"] = err
			return
		}
		c.auditEventRepo = repo
	})
	if storedErr, exists := c.initErrors["auditEventRepo"]; exists {
		return nil, storedErr
	}
	return c.auditEventRepo, nil
}

// AuditUseCase returns the audit use case instance.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	c.auditUseCaseInit.Do(func() {
		repo, err := c.AuditEventRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf(
				"failed to get audit event repository for audit use case: %w", err)
			return
		}

		signer, err := c.AuditSigner()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf(
				"failed to get audit signer for audit use case: %w", err)
			return
		}

		c.auditUseCase = auditUseCase.NewAuditUseCase(repo, signer)
	})
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditEventHandler returns the HTTP handler for audit event reads.
func (c *Container) AuditEventHandler() (*auditHTTP.AuditEventHandler, error) {
	c.auditEventHandlerInit.Do(func() {
		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["auditEventHandler"] = fmt.Errorf(
				"failed to get audit use case for audit event handler: %w", err)
			return
		}
		c.auditEventHandler = auditHTTP.NewAuditEventHandler(auditUC, c.Logger())
	})
	if storedErr, exists := c.initErrors["auditEventHandler"]; exists {
		return nil, storedErr
	}
	return c.auditEventHandler, nil
}

// initAuditEventRepository creates the audit event repository based on the database driver.
func (c *Container) initAuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditEventRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
