package app

import (
	"fmt"

	identityRepository "github.com/keyfold/keyfold/internal/identity/repository"
	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// IdentityRepository returns the identity repository based on the database driver.
func (c *Container) IdentityRepository() (identityUseCase.IdentityRepository, error) {
	c.identityRepoInit.Do(func() {
		repo, err := c.initIdentityRepository()
		if err != nil {
			c.initErrors["identityRepo"] = err
			return
		}
		c.identityRepo = repo
	})
	if storedErr, exists := c.initErrors["identityRepo"]; exists {
		return nil, storedErr
	}
	return c.identityRepo, nil
}

// IdentityUseCase returns the identity use case instance.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	c.identityUseCaseInit.Do(func() {
		repo, err := c.IdentityRepository()
		if err != nil {
			c.initErrors["identityUseCase"] = fmt.Errorf(
				"failed to get identity repository for identity use case: %w", err)
			return
		}
		c.identityUseCase = identityUseCase.NewIdentityUseCase(repo)
	})
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

// initIdentityRepository creates the identity repository based on the database driver.
func (c *Container) initIdentityRepository() (identityUseCase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLIdentityRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
