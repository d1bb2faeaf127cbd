// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the headless client application runtime.
//
// It wires client services and background synchronization workers into a
// single process lifecycle with periodic status reporting.
package client
