package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress   string `mapstructure:"SERVER_ADDRESS"`
	DeepSeekAPIKey  string `mapstructure:"DEEPSEEK_API_KEY"`
	DeepSeekModel   string `mapstructure:"DEEPSEEK_MODEL"`
	DeepSeekBaseURL string `mapstructure:"DEEPSEEK_BASE_URL"`
	SettingsDB      string `mapstructure:"SETTINGS_DB"`
}

// LoadConfig загружает конфигурацию из файла и переменных окружения
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("DEEPSEEK_API_KEY", "")
	viper.SetDefault("DEEPSEEK_MODEL", "deepseek-chat")
	viper.SetDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com")
	viper.SetDefault("SETTINGS_DB", "settings.db")

	err = viper.ReadInConfig()
	if err != nil {
		// Файл конфигурации опционален: ключ API может прийти из окружения.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}
	err = viper.Unmarshal(&cfg)
	return
}
