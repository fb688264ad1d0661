package app

import (
	"fmt"

	agentService "github.com/asthalabs/shopperai/internal/agent/service"
	paymentService "github.com/asthalabs/shopperai/internal/payment/service"
	paymentUseCase "github.com/asthalabs/shopperai/internal/payment/usecase"
)

// PaymentAgentID is the identifier of the built-in payment agent. Policy
// documents for it live at <policy_dir>/payment-agent.json.
const PaymentAgentID = "payment-agent"

// PayPalClient returns the PayPal REST client.
func (c *Container) PayPalClient() paymentService.PayPalClient {
	c.paypalClientInit.Do(func() {
		c.paypalClient = paymentService.NewPayPalClient(
			c.config.PayPalBaseURL,
			c.config.PayPalClientID,
			c.config.PayPalSecret,
			c.config.PayPalTimeout,
		)
	})
	return c.paypalClient
}

// PaymentUseCase returns the payment use case, decorated with metrics.
func (c *Container) PaymentUseCase() (paymentUseCase.PaymentUseCase, error) {
	c.paymentUseCaseInit.Do(func() {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["paymentUseCase"] = fmt.Errorf("failed to get business metrics for payment use case: %w", err)
			return
		}

		useCase := paymentUseCase.NewPaymentUseCase(c.PayPalClient())
		c.paymentUseCase = paymentUseCase.NewPaymentUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["paymentUseCase"]; exists {
		return nil, err
	}
	return c.paymentUseCase, nil
}

// PaymentChannel returns the guarded channel for the payment agent. Every
// connection passes the access check before any payment operation runs.
func (c *Container) PaymentChannel() (*agentService.Channel, error) {
	c.paymentChannelInit.Do(func() {
		accessUseCase, err := c.AccessUseCase()
		if err != nil {
			c.initErrors["paymentChannel"] = fmt.Errorf("failed to get access use case for payment channel: %w", err)
			return
		}

		useCase, err := c.PaymentUseCase()
		if err != nil {
			c.initErrors["paymentChannel"] = fmt.Errorf("failed to get payment use case for payment channel: %w", err)
			return
		}

		c.paymentChannel = agentService.NewChannel(
			PaymentAgentID,
			accessUseCase,
			useCase.Operations(),
			c.Logger(),
		)
	})
	if err, exists := c.initErrors["paymentChannel"]; exists {
		return nil, err
	}
	return c.paymentChannel, nil
}
