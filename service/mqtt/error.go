// Copyright 2024 Ewout Prangsma
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
//
// Author Ewout Prangsma
//

package mqtt

import (
	"github.com/pkg/errors"
)

var (
	// SubscriptionClosedError is returned from NextMsg when the
	// subscription has been closed.
	SubscriptionClosedError = errors.New("subscription closed")
	maskAny                 = errors.WithStack
)

// IsSubscriptionClosed returns true if the given error is caused by a
// SubscriptionClosedError.
func IsSubscriptionClosed(err error) bool {
	return errors.Cause(err) == SubscriptionClosedError
}
