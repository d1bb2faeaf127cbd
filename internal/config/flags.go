package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-d database DSN
//	-cache-path client SQLite cache file path
//	-c/-config json file path with configs
//	-server-address remote store base URL for the client
//	-token pre-issued bearer token for the client
//	-scope owner scope (household) id the client synchronizes
//	-sync-interval background sync interval (e.g., "1m", "30s")
//	-retry-limit retry ceiling per queued change
//	-strategy conflict resolution strategy
//	-token-sign-key token verification key
//	-token-issuer expected token issuer name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-log-file client log file path
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var cachePath string
	var jsonConfigPath string
	var remoteAddress string
	var token string
	var scopeID string
	var syncInterval time.Duration
	var retryLimit int
	var strategy string
	var tokenSignKey string
	var tokenIssuer string
	var requestTimeout time.Duration
	var logFilePath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&cachePath, "cache-path", "", "Client SQLite cache file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&remoteAddress, "server-address", "", "Remote store base URL")
	flag.StringVar(&token, "token", "", "Bearer token for the remote store")
	flag.StringVar(&scopeID, "scope", "", "Owner scope id to synchronize")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 1m, 30s)")
	flag.IntVar(&retryLimit, "retry-limit", 0, "Retry ceiling per queued change")
	flag.StringVar(&strategy, "strategy", "", "Conflict resolution strategy")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token verification key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&logFilePath, "log-file", "", "Client log file path")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Cache: Cache{
				Path: cachePath,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			ServerAddress:  remoteAddress,
			RequestTimeout: requestTimeout,
			Token:          token,
		},
		Sync: Sync{
			ScopeID:    scopeID,
			Interval:   syncInterval,
			RetryLimit: retryLimit,
			Strategy:   strategy,
		},
		Log: Log{
			ClientFilePath: logFilePath,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
