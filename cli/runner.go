package cli

import (
	"context"
	"errors"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"io"
	"os"
)

// Run parses args and executes the selected command, writing results to stdout.
func Run(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	err := run(context.Background(), args, os.Stdout)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return nil
	}
	return err
}

func run(ctx context.Context, args []string, w io.Writer) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	service, err := New(ctx, options, w)
	if err != nil {
		return err
	}
	defer service.Close()
	return service.Execute(ctx, parser.Active.Name)
}
