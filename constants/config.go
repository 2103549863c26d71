package constants

// Configuration Files
const (
	ConfigFileName = "traccarproxy.config.json"
)

// Environment Variables
const (
	EnvTraccarUser   = "TRACCAR_USER"
	EnvTraccarPass   = "TRACCAR_PASS"
	EnvTraccarURL    = "TRACCAR_URL"
	EnvConfigPath    = "TRACCARPROXY_CONFIG"
	EnvDebug         = "TRACCARPROXY_DEBUG"
	EnvSecretsDriver = "TRACCARPROXY_SECRETS_DRIVER"
	EnvSecretsRegion = "TRACCARPROXY_SECRETS_REGION"
	EnvSecretsPrefix = "TRACCARPROXY_SECRETS_PREFIX"
	EnvTracingExport = "TRACCARPROXY_TRACING_EXPORTER"
	EnvTracingTarget = "TRACCARPROXY_TRACING_ENDPOINT"
)

// Upstream defaults
const (
	DefaultTraccarURL  = "https://demo.traccar.org/api/positions"
	DefaultServiceName = "traccarproxy"
	DefaultHTTPHost    = "localhost"
	DefaultHTTPPort    = 8080
)

// Secrets Drivers
const (
	SecretsDriverEnv    = "env"
	SecretsDriverAWS    = "aws-sm"
	SecretsDriverAWSAlt = "aws"
)

// Tracing Exporters
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)
