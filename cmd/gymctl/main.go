package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/flexfit/gymctl/cmd/gymctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login      commands.LoginCmd      `cmd:"" help:"Log in to the gym"`
		Register   commands.RegisterCmd   `cmd:"" help:"Create an account"`
		Logout     commands.LogoutCmd     `cmd:"" help:"Log out"`
		Profile    commands.ProfileCmd    `cmd:"" help:"Show your profile"`
		Dashboard  commands.DashboardCmd  `cmd:"" help:"Show your dashboard"`
		Classes    commands.ClassesCmd    `cmd:"" help:"Browse and book classes"`
		Attendance commands.AttendanceCmd `cmd:"" help:"Track gym visits"`
		Membership commands.MembershipCmd `cmd:"" help:"Manage your membership"`
		Admin      commands.AdminCmd      `cmd:"" help:"Administer accounts and reports"`
		Token      commands.TokenCmd      `cmd:"" help:"Inspect the stored session"`

		Server  string `help:"Gym server URL" env:"GYMCTL_SERVER"`
		DataDir string `help:"Data directory (default ~/.gymctl)" env:"GYMCTL_DATA_DIR"`
		Debug   bool   `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Version: version,
		Server:  cli.Server,
		DataDir: cli.DataDir,
	})
	cmd.FatalIfErrorf(err)
}
