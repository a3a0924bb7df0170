package main

import (
	"github.com/recrutment/hireai/internal/pkg/lifecycle"
	"github.com/recrutment/hireai/services/gateway/internal/bootstrap"
)

func main() {
	lifecycle.Main("gateway", lifecycle.HTTP(bootstrap.NewServer))
}
