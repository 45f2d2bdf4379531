// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Output YAML",
		},
	}
}

func userFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Owner uid (defaults to the authenticated user)",
	}
}

func withOutput(flags ...cli.Flag) []cli.Flag {
	return append(flags, outputFlags()...)
}

// setupCommand writes a configuration file with a fresh device identity.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange login and password for an access token and save it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "login",
						Aliases:  []string{"l"},
						Usage:    "Yandex login",
						Sources:  cli.EnvVars("YAMUSIC_LOGIN"),
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Yandex password",
						Sources:  cli.EnvVars("YAMUSIC_PASSWORD"),
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-save",
						Usage: "Do not write the token to the configuration file",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "genres",
		Usage:  "List catalog genres",
		Flags:  outputFlags(),
		Action: r.Genres,
	}
}

func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "album",
		Usage:     "Show an album",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     outputFlags(),
		Action:    r.Album,
	}
}

func similarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Usage:     "List tracks similar to a track",
		Arguments: []cli.Argument{&cli.StringArg{Name: "track"}},
		Flags:     outputFlags(),
		Action:    r.Similar,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: withOutput(
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Section to search: all, artist, album, track",
				Value:   "all",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page (zero-based)",
			},
		),
		Action: r.Search,
	}
}

// playlistsCommand handles playlist reads, mutations and backups
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  withOutput(userFlag()),
				Action: r.PlaylistsList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist with its tracks (by kind, or --title)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "kind"}},
				Flags: withOutput(
					userFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Find the playlist by title instead of kind",
					},
				),
				Action: r.PlaylistsShow,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: withOutput(
					&cli.StringFlag{
						Name:  "visibility",
						Usage: "public or private",
						Value: "private",
					},
				),
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "title"},
				},
				Action: r.PlaylistsRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "kind"}},
				Action:    r.PlaylistsDelete,
			},
			{
				Name:      "add",
				Usage:     "Insert tracks (id:albumId) into a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "kind"}},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "track",
						Usage:    "Track key as id:albumId (repeatable)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "at",
						Usage: "Insert position",
					},
					&cli.BoolFlag{
						Name:  "allow-duplicates",
						Usage: "Insert tracks already present in the playlist",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show the change without submitting it",
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove the tracks between two positions (inclusive)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "kind"}},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "from",
						Usage:    "First position to remove",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "to",
						Usage: "Last position to remove (-1 for the end)",
						Value: -1,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show the change without submitting it",
					},
				},
				Action: r.PlaylistsRemove,
			},
			{
				Name:  "backup",
				Usage: "Write every playlist as playlist,artist,title,album CSV rows",
				Flags: append(poolFlags(),
					userFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (stdout when empty)",
					},
				),
				Action: r.PlaylistsBackup,
			},
			{
				Name:  "export",
				Usage: "Export each playlist to its own file(s)",
				Flags: append(poolFlags(),
					userFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: yamusic_export_{epoch})",
					},
				),
				Action: r.PlaylistsExport,
			},
		},
	}
}

func poolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64SliceFlag{
			Name:  "kind",
			Usage: "Restrict to these playlist kinds (repeatable)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent playlist fetches",
			Value: 4,
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "Playlist fetches per second",
			Value: 5,
		},
	}
}
