package divinity

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Verbose []bool      `short:"v" long:"verbose" description:"log verbosity, repeat for more"`
	EnvFile string      `long:"env" description:"dotenv file loaded when present" default:".env"`
	Serve   *ServeCmd   `command:"serve" description:"Start the chat relay HTTP server"`
	Chat    *ChatCmd    `command:"chat" description:"Chat with both personas in the terminal"`
	Ask     *AskCmd     `command:"ask" description:"Ask both personas a single question"`
	Version *VersionCmd `command:"version" description:"Print version"`
}

// Init instantiates the sub-command referenced by the first argument so that
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "chat":
		o.Chat = &ChatCmd{}
	case "ask":
		o.Ask = &AskCmd{}
	case "version":
		o.Version = &VersionCmd{}
	}
}
