// Command get-positions is the AWS Lambda / Netlify Functions build of the
// Traccar position proxy.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/constants"
	proxyhttp "github.com/awantoch/traccarproxy/http"
	"github.com/awantoch/traccarproxy/proxy"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/utils"
)

type lambdaHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// newLambdaHandler maps one proxy invocation to an API Gateway response. The
// event is not inspected. The returned error is always nil.
func newLambdaHandler(h *proxy.Handler) lambdaHandler {
	return func(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
			ctx = utils.WithRequestID(ctx, lc.AwsRequestID)
		}
		return toAPIGateway(h.Handle(ctx)), nil
	}
}

// initFailedHandler answers every invocation with the startup error so the
// caller still gets a JSON body.
func initFailedHandler(err error) lambdaHandler {
	body := utils.ErrorJSON(err.Error())
	return func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return toAPIGateway(proxy.Response{StatusCode: http.StatusInternalServerError, Body: body}), nil
	}
}

func toAPIGateway(resp proxy.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{constants.HeaderContentType: constants.ContentTypeJSON},
		Body:       resp.Body,
	}
}

func buildHandler(ctx context.Context) (lambdaHandler, func()) {
	cfg, err := config.LoadOrDefault(os.Getenv(constants.EnvConfigPath))
	if err != nil {
		utils.Error("load config: %v", err)
		return initFailedHandler(err), func() {}
	}
	utils.SetLevel(cfg.Log.Level)

	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		utils.Warn("tracing disabled: %v", err)
	}
	h, provider, err := proxyhttp.NewHandler(ctx, cfg)
	if err != nil {
		utils.Error("init handler: %v", err)
		return initFailedHandler(err), func() { _ = shutdown(ctx) }
	}
	return newLambdaHandler(h), func() {
		provider.Close()
		_ = shutdown(ctx)
	}
}

func main() {
	ctx := context.Background()
	handler, cleanup := buildHandler(ctx)
	defer cleanup()
	lambda.Start(handler)
}
