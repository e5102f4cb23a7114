/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists card layouts on the local machine. A workspace
// is a directory owned by the user; all editor-managed state lives in a
// .cbd subdirectory holding an embedded SQLite database (layout slots,
// wallpaper records) and crash autosave files. A failed save reports an
// error and leaves both the database and the in-memory editor state
// exactly as they were.
package storage
