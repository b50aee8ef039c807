package main

import (
	"github.com/OliveroJ16/inventory-system-api/app"
)

func main() {
	app.New(nil).Run()
}
