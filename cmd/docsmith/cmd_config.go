// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docsmith/cmd/docsmith/config"
	"github.com/AleutianAI/docsmith/pkg/ux"
)

var configForce bool

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _, err := config.ResolvePath(configPath)
	if err != nil {
		return err
	}
	if err := config.WriteDefault(path, configForce); err != nil {
		return err
	}
	ux.NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("Wrote default configuration to %s", path))
	return nil
}
