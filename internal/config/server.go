package config

// ServerConfig holds settings for the sandbox storefront server
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads sandbox server configuration through getenv
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	return ServerConfig{
		Port: port,
	}
}
