// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package appcheck

import "regexp"

// MessageCode tags the category of a log record so it can be found by
// searching logs for the code. Codes have the shape I-XXX000000.
type MessageCode string

// Message codes are grouped by the component that emits them. A code is
// never reused for an unrelated event.
const (
	MessageCodeUnknown MessageCode = "I-FAA001001"

	// Core
	MessageCodeProviderFactoryIsMissing MessageCode = "I-FAA002001"
	MessageCodeProviderIsMissing        MessageCode = "I-FAA002002"

	// API service
	MessageCodeUnexpectedHTTPCode MessageCode = "I-FAA003001"

	// Debug provider
	MessageCodeDebugProviderIncompleteOptions MessageCode = "I-FAA004001"
	MessageCodeDebugProviderFailedExchange    MessageCode = "I-FAA004002"

	// Debug provider factory
	MessageCodeDebugToken MessageCode = "I-FAA005001"

	// Device check provider
	MessageCodeDeviceCheckProviderIncompleteOptions MessageCode = "I-FAA006001"

	// App attest provider
	MessageCodeAppAttestNotSupported MessageCode = "I-FAA007001"
	MessageCodeAttestationRejected   MessageCode = "I-FAA007002"
)

var messageCodeRE = regexp.MustCompile(`^I-[A-Z]{3}[0-9]{6}$`)

// Valid reports whether c has the I-XXX000000 shape.
func (c MessageCode) Valid() bool {
	return messageCodeRE.MatchString(string(c))
}

func (c MessageCode) String() string {
	return string(c)
}

// CodeInfo describes one entry of the message code catalog.
type CodeInfo struct {
	Code      MessageCode `json:"code"`
	Name      string      `json:"name"`
	Situation string      `json:"situation"`
}

var catalog = []CodeInfo{
	{MessageCodeUnknown, "Unknown", "Fallback when no specific code applies"},
	{MessageCodeProviderFactoryIsMissing, "ProviderFactoryIsMissing", "No provider factory was configured"},
	{MessageCodeProviderIsMissing, "ProviderIsMissing", "The provider factory returned no provider"},
	{MessageCodeUnexpectedHTTPCode, "UnexpectedHTTPCode", "Backend responded with an unexpected HTTP status"},
	{MessageCodeDebugProviderIncompleteOptions, "DebugProviderIncompleteOptions", "Debug provider is missing required app options"},
	{MessageCodeDebugProviderFailedExchange, "DebugProviderFailedExchange", "Debug provider failed to exchange the debug token"},
	{MessageCodeDebugToken, "DebugToken", "Debug token was issued"},
	{MessageCodeDeviceCheckProviderIncompleteOptions, "DeviceCheckProviderIncompleteOptions", "Device check provider is missing required app options"},
	{MessageCodeAppAttestNotSupported, "AppAttestNotSupported", "App Attest is not supported on this platform"},
	{MessageCodeAttestationRejected, "AttestationRejected", "Server rejected an attestation attempt"},
}

// Codes returns the catalog of message codes in code order.
func Codes() []CodeInfo {
	out := make([]CodeInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for c.
func Lookup(c MessageCode) (CodeInfo, bool) {
	for _, info := range catalog {
		if info.Code == c {
			return info, true
		}
	}
	return CodeInfo{}, false
}
