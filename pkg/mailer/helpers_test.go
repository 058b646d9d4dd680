package mailer

import "github.com/oksasatya/deploydash/config"

func testConfig() *config.Config {
	return &config.Config{AppName: "deploydash", ClientURL: "http://localhost:5173"}
}
