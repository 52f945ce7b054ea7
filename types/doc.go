/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package types holds the configuration shared by the renderer facade and the
command line tool.

# Configuration

	{
		"logLevel": "DEBUG",
		"canonical": false,
		"indent": "  ",
		"variables": {"rate": 0.25},
		"decimalLiterals": false,
		"context": {"groupFields": ["state"], "exposedFields": ["total"]}
	}

LoadConfig decodes this form over NewConfig defaults and rejects unknown keys.
The context section describes the fields an upstream stage exposed; when it is
empty expressions render against expr.DefaultContext.
*/
package types
