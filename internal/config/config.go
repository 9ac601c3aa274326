package config

import (
	"cmp"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultAPIBaseURL     = "http://localhost:8080"
	defaultHost           = "localhost"
	defaultPort           = 8080
	defaultOTPLength      = 6
	defaultSessionTTL     = 300 * time.Second
	defaultResendCooldown = 60 * time.Second
)

type Config struct {
	// client side
	APIBaseURL     string
	OTPLength      int
	SessionTTL     time.Duration
	ResendCooldown time.Duration

	// mockapi side
	Addr string

	Debug bool
}

func ReadConfig() (*Config, error) {
	var baseURL, host string
	var port, otpLen int
	var debug bool
	flag.StringVar(&baseURL, "api", defaultAPIBaseURL, "base URL of the orders API")
	flag.StringVar(&host, "addr", defaultHost, "flag to set the server startup host")
	flag.IntVar(&port, "port", defaultPort, "flag to set the server startup port")
	flag.IntVar(&otpLen, "otp-length", defaultOTPLength, "expected OTP code length")
	flag.BoolVar(&debug, "debug", false, "flag to set Debug logger level")
	flag.Parse()

	baseURL = cmp.Or(os.Getenv("API_BASE_URL"), baseURL)
	host = cmp.Or(os.Getenv("SERVER_HOST"), host)
	p := cmp.Or(os.Getenv("SERVER_PORT"), strconv.Itoa(port))
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBaseURL:     baseURL,
		OTPLength:      otpLen,
		SessionTTL:     defaultSessionTTL,
		ResendCooldown: defaultResendCooldown,
		Addr:           fmt.Sprintf("%s:%d", host, port),
		Debug:          debug,
	}, nil
}
