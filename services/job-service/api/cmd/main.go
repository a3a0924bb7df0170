package main

import (
	"github.com/recrutment/hireai/internal/pkg/lifecycle"
	"github.com/recrutment/hireai/services/job-service/internal/bootstrap"
)

func main() {
	lifecycle.Main("job-service", lifecycle.HTTP(bootstrap.NewServer))
}
