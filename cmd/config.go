package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName   = "sisypho"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "SISYPHO"

	recordPortKey        = "record.port"
	recordDedupWindowKey = "record.dedup_window_ms"
	recordInfoTTLKey     = "record.info_ttl_ms"
	recordQueueCapKey    = "record.queue_capacity"

	serveTransportKey = "serve.transport"
	servePortKey      = "serve.port"
	serveCacheTTLKey  = "serve.cache_ttl_ms"

	defaultRecordPort = 8765
	defaultServePort  = 8080
	defaultCacheTTLMs = 500
	defaultDedupWinMs = 100
	defaultInfoTTLMs  = 100
	defaultQueueCap   = 500

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".sisypho.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(recordPortKey, defaultRecordPort)
	viper.SetDefault(recordDedupWindowKey, defaultDedupWinMs)
	viper.SetDefault(recordInfoTTLKey, defaultInfoTTLMs)
	viper.SetDefault(recordQueueCapKey, defaultQueueCap)
	viper.SetDefault(serveTransportKey, "stdio")
	viper.SetDefault(servePortKey, defaultServePort)
	viper.SetDefault(serveCacheTTLKey, defaultCacheTTLMs)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, int(slog.LevelInfo))
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil && !isConfigNotFound(err) {
		// A missing config file is fine (defaults apply); a present but
		// unreadable one is worth surfacing.
		slog.Warn("could not read config file", "file", viper.ConfigFileUsed(), "error", err)
	}
}

// isConfigNotFound reports whether a viper read error means the config file
// simply does not exist. With an explicit SetConfigFile, viper surfaces a
// plain *os.PathError instead of ConfigFileNotFoundError.
func isConfigNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger. Logs go to a rotating
// file so stdout stays clean for command output and JSONL streams.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
