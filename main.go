package main

import "github.com/wasper/research-api/cmd"

// @title           Research API
// @version         1.0.0
// @description     Starts Google Maps scrape runs through Apify and returns normalized result rows
// @contact.name    API Support
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
