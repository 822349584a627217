// Command lambda serves the API from AWS Lambda behind an API Gateway proxy integration.
package main

import (
	"context"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/gilberto978/bishbash-api/internal/adapters/lambda"
	"github.com/gilberto978/bishbash-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Start(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start: "+err.Error())
		os.Exit(1)
	}
	defer rt.Stop()

	awslambda.Start(lambda.Adapt(rt.Router(ctx)))
}
