package app

import (
	"fmt"

	credentialHTTP "github.com/keyfold/keyfold/internal/credential/http"
	credentialRepository "github.com/keyfold/keyfold/internal/credential/repository"
	credentialUseCase "github.com/keyfold/keyfold/internal/credential/usecase"
)

// CredentialRepository returns the credential repository based on the database driver.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		repo, err := c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
			return
		}
		c.credentialRepo = repo
	})
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// GrantRepository returns the grant repository based on the database driver.
func (c *Container) GrantRepository() (credentialUseCase.GrantRepository, error) {
	c.grantRepoInit.Do(func() {
		repo, err := c.initGrantRepository()
		if err != nil {
			c.initErrors["grantRepo"] = err
			return
		}
		c.grantRepo = repo
	})
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.grantRepo, nil
}

// CredentialUseCase returns the credential gateway, wrapped with business
// metrics recording.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		useCase, err := c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
			return
		}
		c.credentialUseCase = useCase
	})
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// CredentialHandler returns the HTTP handler for credential operations.
func (c *Container) CredentialHandler() (*credentialHTTP.CredentialHandler, error) {
	c.credentialHandlerInit.Do(func() {
		useCase, err := c.CredentialUseCase()
		if err != nil {
			c.initErrors["credentialHandler"] = fmt.Errorf(
				"failed to get credential use case for credential handler: %w", err)
			return
		}
		c.credentialHandler = credentialHTTP.NewCredentialHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["credentialHandler"]; exists {
		return nil, storedErr
	}
	return c.credentialHandler, nil
}

// initCredentialRepository creates the credential repository based on the database driver.
func (c *Container) initCredentialRepository() (credentialUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return credentialRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return credentialRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGrantRepository creates the grant repository based on the database driver.
func (c *Container) initGrantRepository() (credentialUseCase.GrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return credentialRepository.NewMySQLGrantRepository(db), nil
	case "postgres":
		return credentialRepository.NewPostgreSQLGrantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialUseCase creates the credential gateway with all its dependencies.
func (c *Container) initCredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for credential use case: %w", err)
	}

	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for credential use case: %w", err)
	}

	fieldCodec, err := c.FieldCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get field codec for credential use case: %w", err)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	gateway := credentialUseCase.NewCredentialUseCase(
		txManager,
		credentialRepo,
		grantRepo,
		identityRepo,
		fieldCodec,
		auditUC,
	)

	return credentialUseCase.NewCredentialUseCaseWithMetrics(gateway, businessMetrics), nil
}
