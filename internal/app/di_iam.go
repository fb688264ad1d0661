package app

import (
	"fmt"

	iamRepository "github.com/asthalabs/shopperai/internal/iam/repository"
	iamService "github.com/asthalabs/shopperai/internal/iam/service"
	iamUseCase "github.com/asthalabs/shopperai/internal/iam/usecase"
)

// PolicyRepository returns the policy repository backed by the configured
// policy directory. Documents are loaded once and swapped atomically on
// reload.
func (c *Container) PolicyRepository() (iamUseCase.PolicyRepository, error) {
	c.policyRepoInit.Do(func() {
		repo, err := iamRepository.NewFilePolicyRepository(c.config.PolicyDir)
		if err != nil {
			c.initErrors["policyRepo"] = fmt.Errorf("failed to load policies from %q: %w", c.config.PolicyDir, err)
			return
		}
		c.policyRepo = repo
	})
	if err, exists := c.initErrors["policyRepo"]; exists {
		return nil, err
	}
	return c.policyRepo, nil
}

// Evaluator returns the policy evaluator.
func (c *Container) Evaluator() iamService.Evaluator {
	c.evaluatorInit.Do(func() {
		c.evaluator = iamService.NewEvaluator()
	})
	return c.evaluator
}

// AccessUseCase returns the access-control use case, decorated with metrics.
// Every decision it makes is recorded to the decision audit trail.
func (c *Container) AccessUseCase() (iamUseCase.AccessUseCase, error) {
	c.accessUseCaseInit.Do(func() {
		policyRepo, err := c.PolicyRepository()
		if err != nil {
			c.initErrors["accessUseCase"] = fmt.Errorf("failed to get policy repository for access use case: %w", err)
			return
		}

		decisionLog, err := c.DecisionLogUseCase()
		if err != nil {
			c.initErrors["accessUseCase"] = fmt.Errorf("failed to get decision log for access use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["accessUseCase"] = fmt.Errorf("failed to get business metrics for access use case: %w", err)
			return
		}

		useCase := iamUseCase.NewAccessUseCase(policyRepo, c.Evaluator(), decisionLog, c.Logger())
		c.accessUseCase = iamUseCase.NewAccessUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["accessUseCase"]; exists {
		return nil, err
	}
	return c.accessUseCase, nil
}
