// Package linuxinput reads macro pad buttons from a Linux input device. Key
// codes are mapped to button ids and exposed as line levels for the edge
// poller.
package linuxinput
