package locale

import "github.com/nicksnyder/go-i18n/v2/i18n"

// Built-in messages. IDs are the keys used in the YAML catalogs.
var (
	MsgConfigNotFound = &i18n.Message{
		ID:    "ConfigNotFound",
		Other: "[ERROR] '{{.File}}' was not found. Check it and try again.",
	}
	MsgConfigInvalid = &i18n.Message{
		ID:    "ConfigInvalid",
		Other: "[ERROR] '{{.File}}' could not be read: {{.Error}}",
	}
	MsgLanguageFallback = &i18n.Message{
		ID:    "LanguageFallback",
		Other: "[WARNING] Language is not configured on '{{.File}}'. Falling back to English.",
	}
	MsgCatalogFallback = &i18n.Message{
		ID:    "CatalogFallback",
		Other: "[WARNING] The translation catalog for '{{.Language}}' could not be loaded. Falling back to English.",
	}
	MsgMissingFields = &i18n.Message{
		ID:    "MissingFields",
		Other: "[ERROR] The following fields are blank or missing in '{{.File}}':",
	}
	MsgCheckAndRetry = &i18n.Message{
		ID:    "CheckAndRetry",
		Other: "Check them and try again.",
	}
	MsgResticMissing = &i18n.Message{
		ID:    "ResticMissing",
		Other: "[ERROR] '{{.Binary}}' was not found in PATH. Install restic and try again.",
	}

	MsgWelcome = &i18n.Message{
		ID:    "Welcome",
		Other: "Welcome to FrogBackup! The utility has loaded, passed\nthe initial checks and is ready to start.",
	}
	MsgGoodbye = &i18n.Message{
		ID:    "Goodbye",
		Other: "The utility is now exiting. Thanks for using FrogBackup!",
	}
	MsgPressEnterContinue = &i18n.Message{
		ID:    "PressEnterContinue",
		Other: "Press Enter to continue...",
	}
	MsgPressEnterExit = &i18n.Message{
		ID:    "PressEnterExit",
		Other: "Press Enter to exit...",
	}
	MsgPressEnterRestart = &i18n.Message{
		ID:    "PressEnterRestart",
		Other: "Press Enter to restart this backup stage...",
	}

	MsgStage = &i18n.Message{
		ID:    "Stage",
		Other: "Stage {{.Current}} of {{.Total}}",
	}
	MsgWillBackup = &i18n.Message{
		ID:    "WillBackup",
		Other: "The utility will now backup '{{.Name}}'.",
	}
	MsgProceedIfCorrect = &i18n.Message{
		ID:    "ProceedIfCorrect",
		Other: "If the data below is correct, you shall proceed.",
	}
	MsgLocalPath = &i18n.Message{
		ID:    "LocalPath",
		Other: "LOCAL PATH:",
	}
	MsgRemotePath = &i18n.Message{
		ID:    "RemotePath",
		Other: "REMOTE PATH:",
	}
	MsgMaxSnapshots = &i18n.Message{
		ID:    "MaxSnapshots",
		Other: "MAX SNAPSHOTS:",
	}
	MsgExclude = &i18n.Message{
		ID:    "Exclude",
		Other: "EXCLUDE:",
	}
	MsgTags = &i18n.Message{
		ID:    "Tags",
		Other: "TAGS:",
	}
	MsgPasswordPrompt = &i18n.Message{
		ID:    "PasswordPrompt",
		Other: "Enter your Restic's repository password: ",
	}
	MsgBlankPassword = &i18n.Message{
		ID:    "BlankPassword",
		Other: "Please enter your password to continue. Blank inputs are invalid.",
	}

	MsgStepPrune = &i18n.Message{
		ID:    "StepPrune",
		Other: "STEP 1: Keeping the last {{.Count}} snapshots, deleting the rest...",
	}
	MsgPruneSkipped = &i18n.Message{
		ID:    "PruneSkipped",
		Other: "[INFO] Skipping this step since the repository is configured to not delete old snapshots.",
	}
	MsgStepBackup = &i18n.Message{
		ID:    "StepBackup",
		Other: "STEP 2: Backing up files to the remote path...",
	}
	MsgWrongPassword = &i18n.Message{
		ID:    "WrongPassword",
		Other: "[ERROR] The password you entered is incorrect.",
	}
	MsgStepDiff = &i18n.Message{
		ID:    "StepDiff",
		Other: "STEP 3: Listing differences between the two latest snapshots...",
	}
	MsgSingleSnapshot = &i18n.Message{
		ID:    "SingleSnapshot",
		Other: "[INFO] The repository contains a single snapshot. Therefore, the utility will not try to compare snapshots.",
	}
	MsgFinished = &i18n.Message{
		ID:    "Finished",
		Other: "BACKUP FINISHED!",
	}
	MsgConfirmOutput = &i18n.Message{
		ID:    "ConfirmOutput",
		Other: "Please confirm if the entire process ran correctly reading the output above.",
	}
	MsgAskSuccess = &i18n.Message{
		ID:    "AskSuccess",
		Other: "Was the backup successful (Y/N)? ",
	}
	MsgInvalidAnswer = &i18n.Message{
		ID:    "InvalidAnswer",
		Other: "Invalid input. Please type Y (Yes) or N (No).",
	}
	MsgTakeYourTime = &i18n.Message{
		ID:    "TakeYourTime",
		Other: "Ok, take your time to fix what needs to be fixed.",
	}
	MsgContinueBelow = &i18n.Message{
		ID:    "ContinueBelow",
		Other: "When done, continue following the questions below.",
	}
	MsgAskDelete = &i18n.Message{
		ID:    "AskDelete",
		Other: "CAUTION: Do you want to delete the latest snapshot (Y/N)?",
	}
	MsgAskDeleteHint = &i18n.Message{
		ID:    "AskDeleteHint",
		Other: "This is useful only if Restic was able to create one moments ago. ",
	}
	MsgStepDelete = &i18n.Message{
		ID:    "StepDelete",
		Other: "EXTRA STEP: Deleting the latest snapshot...",
	}
	MsgDeleted = &i18n.Message{
		ID:    "Deleted",
		Other: "LATEST SNAPSHOT DELETED!",
	}
	MsgReadDeleteOutput = &i18n.Message{
		ID:    "ReadDeleteOutput",
		Other: "Read the output above to confirm that the changes were successful.",
	}

	// Comma-separated answer tokens, lower case.
	MsgYesAnswers = &i18n.Message{
		ID:    "YesAnswers",
		Other: "y,yes",
	}
	MsgNoAnswers = &i18n.Message{
		ID:    "NoAnswers",
		Other: "n,no",
	}
)
