package main

import (
	"context"
	"log"

	"kb-agent-lambda/internal/bootstrap"
	"kb-agent-lambda/internal/config"
	"kb-agent-lambda/internal/constant"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(context.Background(), cfg, constant.ProfileUnderwriting)
	if err != nil {
		log.Panicf("Unable to bootstrap underwriting agent: %v", err)
	}
	defer container.Close(context.Background())

	// 3. Serve invocations
	lambda.Start(container.UnderwritingHandler.Handle)
}
