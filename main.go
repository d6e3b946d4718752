// Package main is the entry point for the poolimport CLI.
//
// The CLI brings an existing Cognito user pool and its paired app clients
// under management of a local project configuration: interactive import,
// non-interactive rehydration from a previously recorded import, and a small
// object storage utility for project artifacts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/cloudpool/poolimport/pkg/poolimport"
	"github.com/cloudpool/poolimport/pkg/prompt"
	"github.com/cloudpool/poolimport/pkg/providers/cognito"
	"github.com/cloudpool/poolimport/pkg/providers/s3storage"
)

const version = "0.3.0"

const (
	exitError           = 1
	exitValidationError = 2
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if remediation := poolimport.GetRemediation(err); remediation != "" {
			fmt.Fprintf(os.Stderr, "%s\n", remediation)
		}
		if poolimport.IsCategory(err, poolimport.ErrCategoryValidation) {
			os.Exit(exitValidationError)
		}
		os.Exit(exitError)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "import":
		return cmdImport(ctx, cmdArgs)
	case "rehydrate":
		return cmdRehydrate(ctx, cmdArgs)
	case "storage":
		return cmdStorage(ctx, cmdArgs)
	case "version":
		return cmdVersion()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s\nRun 'poolimport help' for usage", cmd)
	}
}

func printUsage() {
	fmt.Println(`poolimport - import an existing user pool into project configuration

Usage:
  poolimport <command> [options]

Commands:
  import      Interactively import a user pool and its app client pair
  rehydrate   Re-validate a recorded import against current remote state
  storage     Upload or download project artifacts (object storage)
  version     Show version information
  help        Show this help message

Import Options:
  --region <region>       AWS region (falls back to the default config chain)
  --registry <path>       Resource registry file (default: ~/.poolimport/registry.json)

Rehydrate Options:
  --region <region>       AWS region
  --registry <path>       Resource registry file holding the reduced record

Storage Options:
  storage upload --bucket <name> --key <key> --file <path>
  storage download --bucket <name> --key <key> --file <path>

Examples:
  # Import a user pool interactively
  poolimport import --region us-west-2

  # Re-validate the recorded import after a fresh checkout
  poolimport rehydrate --region us-west-2

  # Upload a build artifact
  poolimport storage upload --bucket my-deploy-bucket --key app.zip --file ./dist/app.zip`)
}

type importOpts struct {
	region       string
	registryPath string
}

func parseImportOpts(args []string) (*importOpts, error) {
	opts := &importOpts{
		registryPath: poolimport.DefaultRegistryPath(),
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--region":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--region requires an argument")
			}
			opts.region = args[i+1]
			i++
		case "--registry":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--registry requires a path argument")
			}
			opts.registryPath = args[i+1]
			i++
		default:
			return nil, fmt.Errorf("unknown option: %s", args[i])
		}
	}
	return opts, nil
}

// consoleSink renders core diagnostics to stdout.
type consoleSink struct{}

func (consoleSink) Emit(line string) {
	fmt.Println(line)
}

func newPoolService(ctx context.Context, region string) (*poolimport.PoolService, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return poolimport.NewPoolService(cognito.New(cfg)), nil
}

func cmdImport(ctx context.Context, args []string) error {
	opts, err := parseImportOpts(args)
	if err != nil {
		return err
	}

	svc, err := newPoolService(ctx, opts.region)
	if err != nil {
		return err
	}

	registry, err := poolimport.NewFileRegistry(opts.registryPath)
	if err != nil {
		return fmt.Errorf("failed to initialize registry: %w", err)
	}

	session := poolimport.NewSession(svc, prompt.New(os.Stdin, os.Stdout),
		poolimport.WithSink(consoleSink{}),
		poolimport.WithRegistry(registry),
	)

	result, err := session.Run(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		// Nothing in scope; already reported through the sink.
		return nil
	}

	fmt.Println("\n=== Import Complete ===")
	fmt.Printf("User pool: %s (%s)\n", result.Full.UserPoolName, result.Full.UserPoolID)
	fmt.Printf("Web client: %s\n", result.Full.WebClientID)
	fmt.Printf("Native client: %s\n", result.Full.NativeClientID)
	if result.Full.HostedUIDomain != "" {
		fmt.Printf("Hosted UI domain: %s\n", result.Full.HostedUIDomain)
	}
	if result.Full.OAuthMetadata != nil {
		fmt.Printf("Federation providers: %v\n", result.Answers.OAuth.Providers)
	}
	fmt.Printf("Recorded in: %s\n", opts.registryPath)
	return nil
}

func cmdRehydrate(ctx context.Context, args []string) error {
	opts, err := parseImportOpts(args)
	if err != nil {
		return err
	}

	registry, err := poolimport.NewFileRegistry(opts.registryPath)
	if err != nil {
		return fmt.Errorf("failed to initialize registry: %w", err)
	}

	rec, err := registry.Get(ctx, poolimport.RecordKeyReduced)
	if err != nil {
		return fmt.Errorf("no recorded import to rehydrate: %w", err)
	}
	var reduced poolimport.ReducedOutput
	if err := json.Unmarshal(rec.Value, &reduced); err != nil {
		return fmt.Errorf("invalid reduced record: %w", err)
	}

	svc, err := newPoolService(ctx, opts.region)
	if err != nil {
		return err
	}

	fmt.Printf("Rehydrating user pool: %s\n", reduced.UserPoolID)

	result, err := poolimport.RehydrateResult(ctx, svc, reduced)
	if err != nil {
		return err
	}

	// Refresh the persisted projections with the re-validated state.
	result.SessionID = rec.SessionID
	if err := poolimport.WriteResult(ctx, registry, result); err != nil {
		return err
	}

	fmt.Println("\n=== Rehydration Complete ===")
	fmt.Printf("User pool: %s (%s)\n", result.Full.UserPoolName, result.Full.UserPoolID)
	fmt.Printf("Web client: %s\n", result.Full.WebClientID)
	fmt.Printf("Native client: %s\n", result.Full.NativeClientID)
	return nil
}

type storageOpts struct {
	region string
	bucket string
	key    string
	file   string
}

func parseStorageOpts(args []string) (*storageOpts, error) {
	opts := &storageOpts{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--region":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--region requires an argument")
			}
			opts.region = args[i+1]
			i++
		case "--bucket":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--bucket requires an argument")
			}
			opts.bucket = args[i+1]
			i++
		case "--key":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--key requires an argument")
			}
			opts.key = args[i+1]
			i++
		case "--file":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--file requires a path argument")
			}
			opts.file = args[i+1]
			i++
		default:
			return nil, fmt.Errorf("unknown option: %s", args[i])
		}
	}

	if opts.bucket == "" {
		return nil, fmt.Errorf("--bucket is required")
	}
	if opts.key == "" {
		return nil, fmt.Errorf("--key is required")
	}
	if opts.file == "" {
		return nil, fmt.Errorf("--file is required")
	}
	return opts, nil
}

func cmdStorage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("storage requires a subcommand: upload or download")
	}
	sub := args[0]

	opts, err := parseStorageOpts(args[1:])
	if err != nil {
		return err
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	bucket := s3storage.New(cfg, opts.bucket)

	switch sub {
	case "upload":
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := bucket.Upload(ctx, opts.key, f); err != nil {
			return err
		}
		fmt.Printf("Uploaded %s to s3://%s/%s\n", opts.file, opts.bucket, opts.key)
		return nil

	case "download":
		f, err := os.Create(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := bucket.Download(ctx, opts.key, f); err != nil {
			return err
		}
		fmt.Printf("Downloaded s3://%s/%s to %s\n", opts.bucket, opts.key, opts.file)
		return nil

	default:
		return fmt.Errorf("unknown storage subcommand: %s", sub)
	}
}

func cmdVersion() error {
	fmt.Printf("poolimport version %s\n", version)
	return nil
}
