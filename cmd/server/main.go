package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syncwatch/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	defaultVideoURL = configVar[string]{
		envKey:       "SERVER_DEFAULT_VIDEO_URL",
		flagKey:      "default-video-url",
		defaultValue: "",
	}
	translateAPIURL = configVar[string]{
		envKey:       "TRANSLATE_API_URL",
		flagKey:      "translate-api-url",
		defaultValue: "",
	}
	translateAPIKey = configVar[string]{
		envKey:       "TRANSLATE_API_KEY",
		flagKey:      "translate-api-key",
		defaultValue: "",
	}
	resolverAPIURL = configVar[string]{
		envKey:       "RESOLVER_API_URL",
		flagKey:      "resolver-api-url",
		defaultValue: "",
	}
	roomTTL = configVar[time.Duration]{
		envKey:       "SERVER_ROOM_TTL",
		flagKey:      "room-ttl",
		defaultValue: 24 * time.Hour,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(defaultVideoURL.flagKey, defaultVideoURL.defaultValue, "Video url a new room starts with")
	pflag.String(translateAPIURL.flagKey, translateAPIURL.defaultValue, "Translation API base url")
	pflag.String(translateAPIKey.flagKey, translateAPIKey.defaultValue, "Translation API key")
	pflag.String(resolverAPIURL.flagKey, resolverAPIURL.defaultValue, "Media extraction service url")
	pflag.Duration(roomTTL.flagKey, roomTTL.defaultValue, "Idle room expiration")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(defaultVideoURL.flagKey, defaultVideoURL.envKey)
	viper.BindEnv(translateAPIURL.flagKey, translateAPIURL.envKey)
	viper.BindEnv(translateAPIKey.flagKey, translateAPIKey.envKey)
	viper.BindEnv(resolverAPIURL.flagKey, resolverAPIURL.envKey)
	viper.BindEnv(roomTTL.flagKey, roomTTL.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(defaultVideoURL.flagKey, defaultVideoURL.defaultValue)
	viper.SetDefault(translateAPIURL.flagKey, translateAPIURL.defaultValue)
	viper.SetDefault(translateAPIKey.flagKey, translateAPIKey.defaultValue)
	viper.SetDefault(resolverAPIURL.flagKey, resolverAPIURL.defaultValue)
	viper.SetDefault(roomTTL.flagKey, roomTTL.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		DefaultVideoURL: viper.GetString(defaultVideoURL.flagKey),
		TranslateAPIURL: viper.GetString(translateAPIURL.flagKey),
		TranslateAPIKey: viper.GetString(translateAPIKey.flagKey),
		ResolverAPIURL:  viper.GetString(resolverAPIURL.flagKey),
		RoomTTL:         viper.GetDuration(roomTTL.flagKey),
		RedisPort:       viper.GetInt(redisPort.flagKey),
		RedisHost:       viper.GetString(redisHost.flagKey),
		RedisPassword:   viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
