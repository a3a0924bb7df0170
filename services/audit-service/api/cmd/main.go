package main

import (
	"github.com/recrutment/hireai/internal/pkg/lifecycle"
	"github.com/recrutment/hireai/services/audit-service/internal/bootstrap"
)

func main() {
	lifecycle.Main("audit-service", lifecycle.HTTP(bootstrap.NewServer))
}
