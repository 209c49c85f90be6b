package main

import (
	"github.com/TheYassAnz/coabi-backend/startup"
	"github.com/TheYassAnz/coabi-backend/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
