package app

import (
	"context"
	"fmt"

	auditRepository "github.com/asthalabs/shopperai/internal/audit/repository"
	auditService "github.com/asthalabs/shopperai/internal/audit/service"
	auditUseCase "github.com/asthalabs/shopperai/internal/audit/usecase"
	"github.com/asthalabs/shopperai/internal/kms"
)

// DecisionRecordRepository returns the decision record repository matching
// the configured database driver.
func (c *Container) DecisionRecordRepository() (auditUseCase.DecisionRecordRepository, error) {
	c.decisionRecordRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["decisionRecordRepo"] = fmt.Errorf("failed to get database for decision record repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.decisionRecordRepo = auditRepository.NewMySQLDecisionRecordRepository(db)
		case "postgres":
			c.decisionRecordRepo = auditRepository.NewPostgreSQLDecisionRecordRepository(db)
		default:
			c.initErrors["decisionRecordRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["decisionRecordRepo"]; exists {
		return nil, err
	}
	return c.decisionRecordRepo, nil
}

// RecordSigner returns the decision record signer.
func (c *Container) RecordSigner() auditService.RecordSigner {
	c.recordSignerInit.Do(func() {
		c.recordSigner = auditService.NewRecordSigner()
	})
	return c.recordSigner
}

// SigningKey returns the decision-record signing key, unwrapped through KMS
// when a key URI is configured. Returns nil when signing is disabled.
func (c *Container) SigningKey() ([]byte, error) {
	c.signingKeyInit.Do(func() {
		if c.config.AuditSigningKey == "" {
			return
		}
		key, err := kms.ResolveSigningKey(
			context.Background(),
			c.KMSService(),
			c.config.KMSKeyURI,
			c.config.AuditSigningKey,
		)
		if err != nil {
			c.initErrors["signingKey"] = fmt.Errorf("failed to resolve decision-record signing key: %w", err)
			return
		}
		c.signingKey = key
	})
	if err, exists := c.initErrors["signingKey"]; exists {
		return nil, err
	}
	return c.signingKey, nil
}

// DecisionLogUseCase returns the decision audit trail use case, decorated
// with metrics.
func (c *Container) DecisionLogUseCase() (auditUseCase.DecisionLogUseCase, error) {
	c.decisionLogInit.Do(func() {
		recordRepo, err := c.DecisionRecordRepository()
		if err != nil {
			c.initErrors["decisionLog"] = fmt.Errorf("failed to get record repository for decision log: %w", err)
			return
		}

		signingKey, err := c.SigningKey()
		if err != nil {
			c.initErrors["decisionLog"] = fmt.Errorf("failed to get signing key for decision log: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["decisionLog"] = fmt.Errorf("failed to get business metrics for decision log: %w", err)
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["decisionLog"] = fmt.Errorf("failed to get transaction manager for decision log: %w", err)
			return
		}

		useCase := auditUseCase.NewDecisionLogUseCase(recordRepo, c.RecordSigner(), signingKey, txManager)
		c.decisionLogUseCase = auditUseCase.NewDecisionLogUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["decisionLog"]; exists {
		return nil, err
	}
	return c.decisionLogUseCase, nil
}
