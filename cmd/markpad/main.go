package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/patrickward/markpad/internal/config"
	"github.com/patrickward/markpad/internal/crypto"
)

const (
	appName    = "markpad"
	appVersion = "0.1.0"
)

// getXDGDataHome determines the XDG_DATA_HOME directory.
func getXDGDataHome() (string, error) {
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		xdgDataHome = filepath.Join(homeDir, ".local", "share")
	}

	return xdgDataHome, nil
}

// getDataDirectory determines the data directory using a tiered approach:
// 1. the command-line flag (-data) takes the highest precedence.
// 2. Environment variable MARKPAD_DATA_DIR if a flag is not set.
// 3. XDG_DATA_HOME/markpad or $HOME/.local/share/markpad as fallback.
func getDataDirectory(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if envDir := os.Getenv("MARKPAD_DATA_DIR"); envDir != "" {
		return envDir, nil
	}

	xdgDataHome, err := getXDGDataHome()
	if err != nil {
		return "", fmt.Errorf("unable to determine XDG_DATA_HOME: %w", err)
	}

	return filepath.Join(xdgDataHome, appName), nil
}

// getKeysDirectory determines the keys directory using a tiered approach:
// 1. The command-line flag (-keys-dir) takes the highest precedence.
// 2. Environment variable MARKPAD_KEYS_DIR if a flag is not set.
// 3. XDG_DATA_HOME/markpad/keys or $HOME/.local/share/markpad/keys as fallback.
func getKeysDirectory(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if keysDir := os.Getenv("MARKPAD_KEYS_DIR"); keysDir != "" {
		return keysDir, nil
	}

	xdgDataHome, err := getXDGDataHome()
	if err != nil {
		return "", fmt.Errorf("unable to determine XDG_DATA_HOME: %w", err)
	}

	return filepath.Join(xdgDataHome, appName, "keys"), nil
}

// flagOrEnv returns the flag value when it was set on the command line, then
// the environment variable, then "".
func flagOrEnv(flagValue string, set bool, envKey string) string {
	if set {
		return flagValue
	}
	return os.Getenv(envKey)
}

// getDefaultKeys returns the key pair stored in <data>/keys as key.txt and
// key.pub, or empty strings when either is missing.
func getDefaultKeys(dataDir string) (identitiesFile, recipientsFile string) {
	keysDir := filepath.Join(dataDir, "keys")
	if _, err := os.Stat(keysDir); os.IsNotExist(err) {
		log.Printf("default keys directory %s does not exist", keysDir)
		return "", ""
	}

	identitiesFile = filepath.Join(keysDir, "key.txt")
	recipientsFile = filepath.Join(keysDir, "key.pub")

	if _, err := os.Stat(identitiesFile); os.IsNotExist(err) {
		log.Printf("default identities key file %s does not exist", identitiesFile)
		return "", ""
	}

	if _, err := os.Stat(recipientsFile); os.IsNotExist(err) {
		log.Printf("default recipients key file %s does not exist", recipientsFile)
		return "", ""
	}

	return identitiesFile, recipientsFile
}

// applyServerOverrides layers MARKPAD_ADDR / MARKPAD_PORT and then explicit
// flags over the config file.
func applyServerOverrides(cfg *config.Config, addr string, port int, setFlags map[string]bool) error {
	if env := os.Getenv("MARKPAD_ADDR"); env != "" {
		cfg.Server.Addr = env
	}
	if env := os.Getenv("MARKPAD_PORT"); env != "" {
		p, err := strconv.Atoi(env)
		if err != nil {
			return fmt.Errorf("invalid MARKPAD_PORT %q: %w", env, err)
		}
		cfg.Server.Port = p
	}

	if setFlags["addr"] || setFlags["a"] {
		cfg.Server.Addr = addr
	}
	if setFlags["port"] || setFlags["p"] {
		cfg.Server.Port = port
	}

	return cfg.Validate()
}

func main() {
	var port int
	var addr string
	var dataDirFlag string
	var keysDirFlag string
	var configFile string
	var identitiesFile string
	var recipientsFile string
	var generateKeys bool
	var showVersion bool

	// Short and long names share one variable.
	flagSet := flag.NewFlagSet(appName, flag.ExitOnError)
	flagSet.StringVar(&dataDirFlag, "data", "", "Directory to store markdown files.")
	flagSet.StringVar(&dataDirFlag, "d", "", "Directory to store markdown files.")
	flagSet.StringVar(&keysDirFlag, "keys-dir", "", "Directory for key operations (generation, etc.)")
	flagSet.StringVar(&keysDirFlag, "k", "", "Directory for key operations (generation, etc.)")
	flagSet.StringVar(&configFile, "config", "", "Config file (default <data>/"+config.FileName+").")
	flagSet.StringVar(&configFile, "c", "", "Config file (default <data>/"+config.FileName+").")
	flagSet.StringVar(&identitiesFile, "identity", "", "Use the identity file at the specified path for decryption.")
	flagSet.StringVar(&identitiesFile, "i", "", "Use the identity file at the specified path for decryption.")
	flagSet.StringVar(&recipientsFile, "recipient", "", "Use the recipient file at the specified path for encryption.")
	flagSet.StringVar(&recipientsFile, "r", "", "Use the recipient file at the specified path for encryption.")
	flagSet.BoolVar(&generateKeys, "generate-keys", false, "Generate a new key pair and save it to keys-dir.")
	flagSet.BoolVar(&generateKeys, "g", false, "Generate a new key pair and save it to keys-dir.")

	flagSet.IntVar(&port, "port", 8080, "Port to run the server on.")
	flagSet.IntVar(&port, "p", 8080, "Port to run the server on.")
	flagSet.StringVar(&addr, "addr", "localhost", "Address to bind the server to.")
	flagSet.StringVar(&addr, "a", "localhost", "Address to bind the server to.")

	flagSet.BoolVar(&showVersion, "version", false, "Show application version.")
	flagSet.BoolVar(&showVersion, "v", false, "Show application version.")

	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(flagSet.Output(), "markpad - markdown editor with find and replace\n\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "Examples:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Serve a notes directory:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -data ~/notes -port 9000\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Generate new keys:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -generate-keys -keys-dir ~/.markpad/keys\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "Options:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		log.Fatal(fmt.Errorf("error parsing flags: %w", err))
	}

	if showVersion {
		fmt.Printf("markpad version %s\n", appVersion)
		return
	}

	setFlags := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	keysDir, err := getKeysDirectory(keysDirFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("error determining keys directory: %w", err))
	}

	// Generate new keys - outputs to timestamped key pair files in the keys directory.
	if generateKeys {
		pair, err := crypto.GenerateKeyPair(keysDir, time.Now())
		if err != nil {
			log.Fatal(fmt.Errorf("error generating new encryption identity: %w", err))
		}

		fmt.Printf("Generated new encryption identity:\n")
		fmt.Printf("  Public key: %s\n", pair.PublicKey)
		fmt.Printf("  Public key file: %s\n", pair.PublicPath)
		fmt.Printf("  Private key file: %s\n", pair.PrivatePath)
		fmt.Printf("\nTo use these keys:\n")
		fmt.Printf("  %s -identity %s -recipient %s\n", appName, pair.PrivatePath, pair.PublicPath)
		return
	}

	dataDir, err := getDataDirectory(dataDirFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("error determining data directory: %w", err))
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal(fmt.Errorf("error creating data directory: %w", err))
	}

	if configFile == "" {
		configFile = filepath.Join(dataDir, config.FileName)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := applyServerOverrides(&cfg, addr, port, setFlags); err != nil {
		log.Fatal(err)
	}

	logCloser, err := SetupLogging(NewLogConfig(dataDir, cfg.Log))
	if err != nil {
		log.Fatal(fmt.Errorf("error setting up logging: %w", err))
	}
	defer func() {
		_ = logCloser.Close()
	}()

	encryptionManager := crypto.NewManager()
	identitiesFile = flagOrEnv(identitiesFile, setFlags["identity"] || setFlags["i"], "MARKPAD_IDENTITIES_FILE")
	recipientsFile = flagOrEnv(recipientsFile, setFlags["recipient"] || setFlags["r"], "MARKPAD_RECIPIENTS_FILE")
	if identitiesFile == "" || recipientsFile == "" {
		identitiesFile, recipientsFile = getDefaultKeys(dataDir)
	}

	if identitiesFile == "" {
		log.Printf("No encryption keys configured, encryption disabled")
	} else if err := encryptionManager.LoadKeys(identitiesFile, recipientsFile); err != nil {
		log.Printf("Error loading encryption keys: %v", err)
		log.Printf("Encryption disabled!")
	} else {
		log.Printf("Encryption enabled!")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := NewServer(ctx, dataDir, cfg, WithEncryptionManager(encryptionManager))
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing server: %w", err))
	}

	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
