// Package util provides shared helpers for mockclient packages.
//
//   - SafeFilePath: reject fixture keys that would escape the fixture directory
//   - TruncateBody: cap bodies quoted in assertion messages and logs
package util
