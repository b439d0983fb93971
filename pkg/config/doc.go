// Package config resolves mockclient settings.
//
// Values are layered in increasing order of precedence:
//
//  1. built-in defaults (NewDefault)
//  2. a .mockclient.yaml file (LoadFile)
//  3. MOCKCLIENT_* environment variables (LoadEnv)
//  4. command line flags, merged by the caller with Merge(cfg, flags, SourceFlag)
//
// Config.Sources records which layer supplied each field.
package config
