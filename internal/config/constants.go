package config

import "time"

// Base application details
const AppName = "nib"
const Version = "0.1.0"
const ConfigDirName = "nib"
const ThemesDirName = "themes"
const DefaultThemeFileName = "theme.toml"  // Active theme file
const DefaultConfigFileName = "nib.toml"   // Main config file
const DefaultLogFileName = "nib.log"

// UI Layout
const StatusBarHeight = 1

// Input Behavior
const DefaultLeaderKey = ','
const LeaderTimeout = 500 * time.Millisecond

// Status Bar
const MessageTimeout = 4 * time.Second

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const SystemClipboard = true
