package cli

type Options struct {
	URL       string `short:"U" long:"url" env:"CASEFLOW_URL" description:"caseflow api url" default:"http://localhost:8000/api"`
	TokenFile string `short:"f" long:"token-file" env:"CASEFLOW_TOKEN_FILE" description:"token file location, defaults to ~/.caseflow/token.json"`
	Key       string `short:"k" long:"key" env:"CASEFLOW_KEY" description:"token encryption key, e.g. blowfish://default"`
	Redis     string `short:"r" long:"redis" env:"CASEFLOW_REDIS" description:"redis address used as token store"`
	LogLevel  string `short:"l" long:"log-level" env:"CASEFLOW_LOG_LEVEL" description:"log level" default:"warn"`

	Login   LoginCommand   `command:"login" description:"log in and store the token"`
	Logout  struct{}       `command:"logout" description:"clear the stored token"`
	WhoAmI  struct{}       `command:"whoami" description:"print current user"`
	Tasks   struct{}       `command:"tasks" description:"list report tasks"`
	Task    TaskCommand    `command:"task" description:"print a report task"`
	Dataset DatasetCommand `command:"dataset" description:"print a report dataset"`
	Report  ReportCommand  `command:"report" description:"print a study report or download its asset"`
}

type LoginCommand struct {
	Username string `short:"u" long:"username" env:"CASEFLOW_USERNAME" description:"username" required:"true"`
	Password string `short:"p" long:"password" env:"CASEFLOW_PASSWORD" description:"password" required:"true"`
}

type TaskCommand struct {
	Slug string `short:"s" long:"slug" description:"task slug" required:"true"`
}

type DatasetCommand struct {
	Name string `short:"n" long:"name" description:"dataset name" required:"true"`
}

type ReportCommand struct {
	Name  string `short:"n" long:"name" description:"study name" default:"digital_inequality"`
	Asset string `short:"a" long:"asset" description:"raw asset to download instead of the report" choice:"data" choice:"model"`
}
