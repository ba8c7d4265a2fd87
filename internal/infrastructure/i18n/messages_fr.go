package i18n

var french = map[string]string{
	// Generic field checks
	"This field is required.":                                                 "Ce champ est obligatoire.",
	"Enter a valid value.":                                                    "Saisissez une valeur valide.",
	"Enter a valid email address.":                                            "Saisissez une adresse e-mail valide.",
	"Invalid email address.":                                                  "Adresse e-mail invalide.",
	"Ensure this value has at most %s characters.":                            "Assurez-vous que cette valeur comporte au plus %s caractères.",
	"Ensure this value has at least %s characters.":                           "Assurez-vous que cette valeur comporte au moins %s caractères.",
	"Ensure this value has at least %d characters.":                           "Assurez-vous que cette valeur comporte au moins %d caractères.",
	"Ensure this value has exactly %s characters.":                            "Assurez-vous que cette valeur comporte exactement %s caractères.",
	"Ensure this value is between %d and %d.":                                 "Assurez-vous que cette valeur est comprise entre %d et %d.",
	"Ensure this value is greater than 0.":                                    "Assurez-vous que cette valeur est supérieure à 0.",
	"Ensure this value is greater than or equal to 0.":                        "Assurez-vous que cette valeur est supérieure ou égale à 0.",
	"Select a valid choice. %s is not one of the available choices.":          "Sélectionnez un choix valide. %s ne fait pas partie des choix disponibles.",
	"Select a valid choice. %v is not one of the available choices.":          "Sélectionnez un choix valide. %v ne fait pas partie des choix disponibles.",
	"Select a valid choice. That choice is not one of the available choices.": "Sélectionnez un choix valide. Ce choix ne fait pas partie des choix disponibles.",
	"This field must be a JSON object.":                                       "Ce champ doit être un objet JSON.",
	"This field must be a JSON array.":                                        "Ce champ doit être un tableau JSON.",
	"This field must contain only digits.":                                    "Ce champ ne doit contenir que des chiffres.",
	"This date cannot be in the future.":                                      "Cette date ne peut pas être dans le futur.",
	"This date cannot be in the past.":                                        "Cette date ne peut pas être dans le passé.",
	"This date must be in the future.":                                        "Cette date doit être dans le futur.",
	"Value does not match the declared type %s.":                              "La valeur ne correspond pas au type déclaré %s.",
	"Currency code must be exactly 3 letters.":                                "Le code devise doit comporter exactement 3 lettres.",
	"Country code must be exactly 2 letters.":                                 "Le code pays doit comporter exactement 2 lettres.",
	"Language code must be exactly 2 letters.":                                "Le code langue doit comporter exactement 2 lettres.",
	"Phone number must have at least 10 digits.":                              "Le numéro de téléphone doit comporter au moins 10 chiffres.",

	// Company boundary
	"Your account is not associated with any company.":    "Votre compte n'est associé à aucune entreprise.",
	"The selected record belongs to another company.":     "L'enregistrement sélectionné appartient à une autre entreprise.",
	"You are not an active member of this company.":       "Vous n'êtes pas un membre actif de cette entreprise.",
	"This user is already associated with the company.":   "Cet utilisateur est déjà associé à l'entreprise.",
	"This module is already associated with the company.": "Ce module est déjà associé à l'entreprise.",

	// Uniqueness
	"A cart with this session already exists.":                           "Un panier existe déjà pour cette session.",
	"A company with this tax ID already exists.":                         "Une entreprise avec ce numéro fiscal existe déjà.",
	"A configuration with this key already exists.":                      "Une configuration avec cette clé existe déjà.",
	"A country with this code already exists.":                           "Un pays avec ce code existe déjà.",
	"A currency with this code already exists.":                          "Une devise avec ce code existe déjà.",
	"A customer with this email already exists.":                         "Un client avec cet e-mail existe déjà.",
	"A customer with this tax ID already exists.":                        "Un client avec ce numéro fiscal existe déjà.",
	"A language with this code already exists.":                          "Une langue avec ce code existe déjà.",
	"A module with this code already exists.":                            "Un module avec ce code existe déjà.",
	"A product catalog with this name already exists for this company.":  "Un catalogue portant ce nom existe déjà pour cette entreprise.",
	"A product with this SKU prefix already exists for this company.":    "Un produit avec ce préfixe SKU existe déjà pour cette entreprise.",
	"A user with this email already exists.":                             "Un utilisateur avec cet e-mail existe déjà.",
	"A variant with this SKU already exists.":                            "Une variante avec ce SKU existe déjà.",
	"An appointment for this service already exists for this time slot.": "Un rendez-vous existe déjà pour ce service sur ce créneau.",
	"An invoice with this number already exists.":                        "Une facture avec ce numéro existe déjà.",
	"An order with this number already exists.":                          "Une commande avec ce numéro existe déjà.",
	"Another address of this type is already set as default.":            "Une autre adresse de ce type est déjà définie par défaut.",
	"This user is already a member of the project.":                      "Cet utilisateur est déjà membre du projet.",

	// Amounts and totals
	"Amount must be greater than zero.":                                                "Le montant doit être supérieur à zéro.",
	"Total amount must be greater than zero.":                                          "Le montant total doit être supérieur à zéro.",
	"Budget must be greater than zero.":                                                "Le budget doit être supérieur à zéro.",
	"Base price cannot be negative.":                                                   "Le prix de base ne peut pas être négatif.",
	"Tax amount cannot be negative.":                                                   "Le montant de la taxe ne peut pas être négatif.",
	"Estimated cost cannot be negative.":                                               "Le coût estimé ne peut pas être négatif.",
	"Quantity must be a positive number.":                                              "La quantité doit être un nombre positif.",
	"Unit cost must be a positive number.":                                             "Le coût unitaire doit être un nombre positif.",
	"Total cost must be a positive number.":                                            "Le coût total doit être un nombre positif.",
	"Hours must be a positive number.":                                                 "Le nombre d'heures doit être positif.",
	"Actual hours must be a positive number.":                                          "Les heures réelles doivent être un nombre positif.",
	"Estimated hours must be a positive number.":                                       "Les heures estimées doivent être un nombre positif.",
	"Duration must be a positive number.":                                              "La durée doit être un nombre positif.",
	"Estimated duration must be a positive number.":                                    "La durée estimée doit être un nombre positif.",
	"Allocation percentage must be between 0 and 100.":                                 "Le pourcentage d'affectation doit être compris entre 0 et 100.",
	"Available balance cannot be greater than current balance.":                        "Le solde disponible ne peut pas dépasser le solde courant.",
	"Total amount must equal subtotal plus tax (%s).":                                  "Le montant total doit être égal au sous-total plus la taxe (%s).",
	"Total amount must equal subtotal plus tax and shipping minus discounts (%s).":     "Le montant total doit être égal au sous-total plus la taxe et la livraison moins les remises (%s).",
	"Total cost should be equal to quantity * unit cost (%s).":                         "Le coût total doit être égal à la quantité multipliée par le coût unitaire (%s).",
	"Total price must equal quantity times unit price (%s).":                           "Le prix total doit être égal à la quantité multipliée par le prix unitaire (%s).",
	"Total price must equal quantity times unit price, plus tax, minus discount (%s).": "Le prix total doit être égal à la quantité multipliée par le prix unitaire, plus la taxe, moins la remise (%s).",
	"Threshold for percentage metrics must be between 0 and 100.":                      "Le seuil d'un indicateur en pourcentage doit être compris entre 0 et 100.",
	"Threshold value is required.":                                                     "La valeur du seuil est obligatoire.",

	// Dates
	"End date must be after start date.":                            "La date de fin doit être postérieure à la date de début.",
	"End time must be after start time.":                            "L'heure de fin doit être postérieure à l'heure de début.",
	"Due date must be a future date.":                               "La date d'échéance doit être dans le futur.",
	"Due date must be in the future.":                               "La date d'échéance doit être dans le futur.",
	"Due date must be after the issue date.":                        "La date d'échéance doit être postérieure à la date d'émission.",
	"Valid until date must be in the future.":                       "La date de validité doit être dans le futur.",
	"Scheduled time must be in the future.":                         "L'heure planifiée doit être dans le futur.",
	"Publish date cannot be in the past.":                           "La date de publication ne peut pas être dans le passé.",
	"Last contact date cannot be in the future.":                    "La date du dernier contact ne peut pas être dans le futur.",
	"Completed date cannot be after the due date.":                  "La date d'achèvement ne peut pas être postérieure à l'échéance.",
	"Expiration date cannot be earlier than creation date.":         "La date d'expiration ne peut pas précéder la date de création.",
	"Resolved date cannot be earlier than the issue creation date.": "La date de résolution ne peut pas précéder la date de création du ticket.",
	"Date must fall within the project dates.":                      "La date doit être comprise dans les dates du projet.",
	"Task dates must fall within the phase dates.":                  "Les dates de la tâche doivent être comprises dans celles de la phase.",

	// JSON shapes
	"Attributes must be a valid JSON object.":     "Les attributs doivent être un objet JSON valide.",
	"Featured image must be a valid JSON object.": "L'image principale doit être un objet JSON valide.",
	"File output must be a valid JSON object.":    "La sortie fichier doit être un objet JSON valide.",
	"Filters must be a valid JSON object.":        "Les filtres doivent être un objet JSON valide.",
	"Parameters must be a valid JSON object.":     "Les paramètres doivent être un objet JSON valide.",
	"Result data must be a valid JSON object.":    "Les données de résultat doivent être un objet JSON valide.",
	"SEO settings must be a valid JSON object.":   "Les paramètres SEO doivent être un objet JSON valide.",
	"Schedule must be a valid JSON object.":       "La planification doit être un objet JSON valide.",
	"Columns must be a valid JSON array.":         "Les colonnes doivent être un tableau JSON valide.",
	"Dimensions must be a valid JSON array.":      "Les dimensions doivent être un tableau JSON valide.",
	"Recipients must be a valid JSON array.":      "Les destinataires doivent être un tableau JSON valide.",

	// Status and companion fields
	"End time is required for completed executions.":              "L'heure de fin est obligatoire pour une exécution terminée.",
	"Error message is required for failed executions.":            "Le message d'erreur est obligatoire pour une exécution échouée.",
	"Custom reports must include a custom query in the template.": "Les rapports personnalisés doivent inclure une requête dans le modèle.",
	"Data source is required for API exports.":                    "La source de données est obligatoire pour les exports API.",
	"Schedule is required for scheduled exports.":                 "La planification est obligatoire pour les exports planifiés.",
	"Schedule is required for time-based triggers.":               "La planification est obligatoire pour les déclencheurs temporels.",
	"Event name is required for event-based triggers.":            "Le nom d'événement est obligatoire pour les déclencheurs événementiels.",
	"Trigger conditions are required.":                            "Les conditions de déclenchement sont obligatoires.",
	"At least one action is required.":                            "Au moins une action est obligatoire.",
	"Company name is required for business customers.":            "Le nom de l'entreprise est obligatoire pour les clients professionnels.",
	"Tax information must include a tax ID.":                      "Les informations fiscales doivent inclure un numéro fiscal.",
	"Default currency must be active.":                            "La devise par défaut doit être active.",
	"Default language must be active.":                            "La langue par défaut doit être active.",
	"An order item must reference a product or a service.":        "Une ligne de commande doit référencer un produit ou un service.",
	"The address must belong to the order's customer.":            "L'adresse doit appartenir au client de la commande.",
	"The selected phase does not belong to the selected project.": "La phase sélectionnée n'appartient pas au projet sélectionné.",
	"The selected task does not belong to the selected project.":  "La tâche sélectionnée n'appartient pas au projet sélectionné.",

	// Authentication
	"Invalid email or password.":                                  "E-mail ou mot de passe invalide.",
	"Token is invalid.":                                           "Le jeton est invalide.",
	"Token has expired.":                                          "Le jeton a expiré.",
	"Token has been revoked.":                                     "Le jeton a été révoqué.",
	"Session has reached its refresh limit. Please log in again.": "La session a atteint sa limite de renouvellement. Veuillez vous reconnecter.",
	"Authentication required.":                                    "Authentification requise.",

	// Transport
	"Resource not found":                                        "Ressource introuvable",
	"Access to this resource is forbidden":                      "L'accès à cette ressource est interdit",
	"Not authorized to perform this action":                     "Vous n'êtes pas autorisé à effectuer cette action",
	"Invalid input provided":                                    "Données saisies invalides",
	"Request validation failed.":                                "La validation de la requête a échoué.",
	"An unexpected error occurred.":                             "Une erreur inattendue s'est produite.",
	"Invalid request body.":                                     "Corps de requête invalide.",
	"Invalid record id.":                                        "Identifiant d'enregistrement invalide.",
	"Invalid company id.":                                       "Identifiant d'entreprise invalide.",
	"Too many requests. Please slow down.":                      "Trop de requêtes. Veuillez ralentir.",
	"Too many authentication attempts. Please try again later.": "Trop de tentatives d'authentification. Veuillez réessayer plus tard.",
	"Request body too large.":                                   "Corps de requête trop volumineux.",
	"%s created successfully.":                                  "%s créé avec succès.",
	"%s updated successfully.":                                  "%s mis à jour avec succès.",
	"%s deleted successfully.":                                  "%s supprimé avec succès.",
	"Logged out successfully.":                                  "Déconnexion réussie.",
	"Export completed.":                                         "Export terminé.",
	"Records of this resource are read-only.":                   "Les enregistrements de cette ressource sont en lecture seule.",
}
