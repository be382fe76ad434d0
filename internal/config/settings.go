package config

// Settings contains the application config
type Settings struct {
	Port        int    `env:"PORT"`
	MonPort     int    `env:"MON_PORT"`
	EnablePprof bool   `env:"ENABLE_PPROF"`
	LogLevel    string `env:"LOG_LEVEL"`
	ServiceName string `env:"SERVICE_NAME"`

	WebexAPIURL      string `env:"WEBEX_API_URL"`
	WebexAccessToken string `env:"WEBEX_ACCESS_TOKEN"`
	BotEmail         string `env:"BOT_EMAIL"`
	// CallbackURL is this service's own public URL that Webex delivers
	// message-created events to.
	CallbackURL string `env:"CALLBACK_URL"`
	WebhookName string `env:"WEBHOOK_NAME"`

	SplunkHECURL string `env:"SPLUNK_HEC_URL"`
	SplunkToken  string `env:"SPLUNK_TOKEN"`
	// SplunkInsecureTLS skips certificate verification on the HEC call.
	// Off unless the deployment explicitly opts in.
	SplunkInsecureTLS bool `env:"SPLUNK_INSECURE_TLS"`

	CropFile string `env:"CROP_FILE"`
}
